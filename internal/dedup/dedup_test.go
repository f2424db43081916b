package dedup

import (
	"testing"

	"marketevents/internal/event"
)

func rec(date, desc string) event.Record {
	return event.Record{Date: date, Description: desc}
}

func TestSet_ExactDateCaseInsensitiveDescription(t *testing.T) {
	s := NewSet(event.NewKey("2026-10-19", "Fed raises rates by 25bps"))

	cases := []struct {
		r    event.Record
		want bool
	}{
		{rec("2026-10-19", "Fed raises rates by 25bps"), true},
		{rec("2026-10-19", "FED RAISES RATES BY 25BPS"), true},
		{rec("2026-10-20", "Fed raises rates by 25bps"), false},
		{rec("2026-10-19", "Fed raises rates by 25 bps"), false},
		{rec("2026-10-19", "Fed raises rates by 25bps."), false},
	}
	for i, tc := range cases {
		if got := s.IsDuplicate(tc.r); got != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}

func TestSet_FilterRemembersWithinCycle(t *testing.T) {
	s := NewSet()
	in := []event.Record{
		rec("2026-10-19", "Fed raises rates by 25bps"),
		rec("2026-10-19", "Company X reports record revenue"),
		rec("2026-10-19", "fed raises rates by 25BPS"),
	}
	fresh, dups := s.Filter(in)
	if len(fresh) != 2 || dups != 1 {
		t.Fatalf("expected 2 fresh and 1 duplicate, got %d and %d", len(fresh), dups)
	}
	if fresh[0].Description != "Fed raises rates by 25bps" || fresh[1].Description != "Company X reports record revenue" {
		t.Fatalf("order not preserved: %+v", fresh)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 remembered keys, got %d", s.Len())
	}

	again, dups := s.Filter(in[:2])
	if len(again) != 0 || dups != 2 {
		t.Fatalf("expected everything duplicate on second pass, got %d fresh", len(again))
	}
}

func TestSet_EmptyPriorSetAcceptsAll(t *testing.T) {
	fresh, dups := NewSet().Filter([]event.Record{rec("2026-10-19", "a"), rec("2026-10-19", "b")})
	if len(fresh) != 2 || dups != 0 {
		t.Fatalf("unexpected result %d %d", len(fresh), dups)
	}
}
