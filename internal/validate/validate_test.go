package validate

import (
	"errors"
	"strings"
	"testing"

	"marketevents/internal/event"
)

func candidate(time, desc, typ string) event.Candidate {
	return event.Candidate{"time": time, "description": desc, "type": typ}
}

func TestCandidate_DescriptionBoundary(t *testing.T) {
	if err := Candidate(candidate("09:30", strings.Repeat("a", 9), "other")); err == nil {
		t.Fatalf("expected rejection for 9 characters")
	}
	if err := Candidate(candidate("09:30", strings.Repeat("a", 10), "other")); err != nil {
		t.Fatalf("expected acceptance for 10 characters, got %v", err)
	}
	// Characters, not bytes.
	if err := Candidate(candidate("09:30", "美联储公布利率决议结果", "policy")); err != nil {
		t.Fatalf("expected acceptance for 11 CJK characters, got %v", err)
	}
	if err := Candidate(candidate("09:30", "美联储公布利率决议", "policy")); err == nil {
		t.Fatalf("expected rejection for 9 CJK characters")
	}
}

func TestCandidate_DescriptionMeasuredCollapsed(t *testing.T) {
	err := Candidate(candidate("09:30", "Fed   hike", "policy"))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "description" {
		t.Fatalf("expected description rejection for padded text, got %v", err)
	}
	if err := Candidate(candidate("09:30", "  Fed  hikes rates ", "policy")); err != nil {
		t.Fatalf("expected acceptance, got %v", err)
	}
}

func TestCandidate_TimeFormats(t *testing.T) {
	ok := []string{"09:30", "9:30", "9：30", "16:45", "23:59", "pre-market", "Pre-Market", "盘前", "盘中", "盘后", "open", "收盘", "after-hours", "unspecified"}
	for _, tm := range ok {
		if err := Candidate(candidate(tm, "a long enough description", "other")); err != nil {
			t.Fatalf("time %q: unexpected err %v", tm, err)
		}
	}
	bad := []string{"", "morning", "9.30", "0930", "下午三点", "25:99", "24:00", "12:60"}
	for _, tm := range bad {
		err := Candidate(candidate(tm, "a long enough description", "other"))
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "time" {
			t.Fatalf("time %q: expected time ValidationError, got %v", tm, err)
		}
	}
}

func TestCandidate_MissingFields(t *testing.T) {
	cases := []struct {
		c     event.Candidate
		field string
	}{
		{event.Candidate{"description": "a long enough description", "type": "other"}, "time"},
		{event.Candidate{"time": "09:30", "type": "other"}, "description"},
		{event.Candidate{"time": "09:30", "description": "   ", "type": "other"}, "description"},
		{event.Candidate{"time": "09:30", "description": "a long enough description"}, "type"},
	}
	for i, tc := range cases {
		err := Candidate(tc.c)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d: expected ValidationError, got %v", i, err)
		}
		if ve.Field != tc.field {
			t.Fatalf("case %d: expected field %s, got %s", i, tc.field, ve.Field)
		}
	}
}

func TestCandidate_DoesNotMutate(t *testing.T) {
	c := candidate("盘前", "  a long enough description  ", "经济数据")
	_ = Candidate(c)
	if c["time"] != "盘前" || c["description"] != "  a long enough description  " || c["type"] != "经济数据" {
		t.Fatalf("candidate mutated: %+v", c)
	}
}
