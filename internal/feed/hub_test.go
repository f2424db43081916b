package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"marketevents/internal/event"
)

func TestHubBroadcastDropsForSlowSubscriber(t *testing.T) {
	h := NewHub(nil)
	ch, cancel := h.Subscribe(1)
	defer cancel()

	recs := []event.Record{{Date: "2026-10-19", Description: "Fed raises rates"}}
	h.Broadcast("daily", recs)
	h.Broadcast("daily", recs)

	msg := <-ch
	if msg.Task != "daily" || len(msg.Records) != 1 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if h.Dropped() != 1 {
		t.Fatalf("expected 1 dropped, got %d", h.Dropped())
	}
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub(nil)
	_, cancel := h.Subscribe(0)
	if h.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber")
	}
	cancel()
	cancel()
	if h.Subscribers() != 0 {
		t.Fatalf("expected 0 subscribers")
	}
	h.Broadcast("daily", []event.Record{{Description: "x"}})
}

func TestServeWSStreamsMessages(t *testing.T) {
	h := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	h.Broadcast("breaking", []event.Record{{Date: "2026-10-19", Description: "Breaking headline"}})

	var msg Message
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Task != "breaking" || msg.Records[0].Description != "Breaking headline" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}
