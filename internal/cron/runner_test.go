package cronrunner

import (
	"context"
	"testing"
	"time"
)

type ctxKey struct{}

func TestAddRunsJobWithBaseContext(t *testing.T) {
	base := context.WithValue(context.Background(), ctxKey{}, "base")
	r := New(nil, base, time.UTC)

	var got any
	id, err := r.Add("daily", "0 0 8 * * 1-5", func(ctx context.Context) {
		got = ctx.Value(ctxKey{})
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	r.cron.Entry(id).WrappedJob.Run()
	if got != "base" {
		t.Fatalf("expected base context, got %v", got)
	}

	entries := r.Entries()
	if len(entries) != 1 || entries[0].Name != "daily" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestAddRejectsBadSpec(t *testing.T) {
	r := New(nil, nil, nil)
	if _, err := r.Add("weekly", "every sunday", func(context.Context) {}); err == nil {
		t.Fatalf("expected error for bad spec")
	}
}

func TestAddEmptySpecDisables(t *testing.T) {
	r := New(nil, nil, nil)
	id, err := r.Add("breaking", "", func(context.Context) {})
	if err != nil || id != 0 || len(r.Entries()) != 0 {
		t.Fatalf("expected disabled job, got id=%d err=%v", id, err)
	}
}

func TestSkipIfStillRunning(t *testing.T) {
	r := New(nil, nil, nil)
	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	id, err := r.Add("earnings", "0 0 7 * * *", func(context.Context) {
		calls++
		close(started)
		<-release
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	job := r.cron.Entry(id).WrappedJob
	go job.Run()
	<-started
	job.Run()
	close(release)
	if calls != 1 {
		t.Fatalf("expected overlapping run to be skipped, got %d calls", calls)
	}
}
