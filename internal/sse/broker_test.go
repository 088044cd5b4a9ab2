package sse

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestBroker(interval time.Duration) *Broker {
	return NewBroker(interval, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// drain collects everything currently buffered on ch.
func drain(ch chan []byte) []string {
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := newTestBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := newTestBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "document.created", Data: map[string]string{"id": "d1"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: document.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"id":"d1"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishDocumentEvent_IndicatorThrottle(t *testing.T) {
	b := newTestBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishDocumentEvent("created", "d1")
	b.PublishDocumentEvent("updated", "d1")

	time.Sleep(50 * time.Millisecond)
	indicators, docs := 0, 0
	for _, s := range drain(ch) {
		switch {
		case strings.Contains(s, "event: "+SaveIndicatorEvent):
			indicators++
		case strings.Contains(s, "event: document."):
			docs++
		}
	}
	if docs != 2 {
		t.Errorf("document events = %d, want 2", docs)
	}
	if indicators != 1 {
		t.Errorf("indicator events = %d, want 1 (throttled)", indicators)
	}
}

func TestIndicatorThrottledPerDocument(t *testing.T) {
	b := newTestBroker(time.Hour)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishDocumentEvent("updated", "d1")
	b.PublishDocumentEvent("updated", "d2")
	b.PublishDocumentEvent("updated", "d1")
	b.PublishDocumentEvent("deleted", "d2")

	time.Sleep(50 * time.Millisecond)
	var indicated []string
	for _, s := range drain(ch) {
		if strings.Contains(s, "event: "+SaveIndicatorEvent) {
			indicated = append(indicated, s)
		}
	}
	if len(indicated) != 2 {
		t.Fatalf("indicators = %d, want one each for d1 and d2: %q", len(indicated), indicated)
	}
	if !strings.Contains(indicated[0], `"id":"d1"`) || !strings.Contains(indicated[1], `"id":"d2"`) {
		t.Errorf("unexpected indicators %q", indicated)
	}
}

func TestEventIDsIncrease(t *testing.T) {
	b := newTestBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "a", Data: 1})
	b.Publish(Event{Type: "b", Data: 2})

	time.Sleep(50 * time.Millisecond)
	msgs := drain(ch)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if !strings.HasPrefix(msgs[0], "id: 1\n") || !strings.HasPrefix(msgs[1], "id: 2\n") {
		t.Errorf("unexpected ids: %q", msgs)
	}
}

func TestPublishFileEvent_NoIndicator(t *testing.T) {
	b := newTestBroker(time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishFileEvent("deleted", "notes/a.md")

	time.Sleep(50 * time.Millisecond)
	msgs := drain(ch)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d: %q", len(msgs), msgs)
	}
	if !strings.Contains(msgs[0], "event: file.deleted") || !strings.Contains(msgs[0], `"path":"notes/a.md"`) {
		t.Errorf("unexpected message %q", msgs[0])
	}
}

func TestSSEHandler(t *testing.T) {
	b := newTestBroker(100 * time.Millisecond)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.PublishDocumentEvent("updated", "d7")
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: document.updated") {
		t.Errorf("handler output missing event: %q", body)
	}
	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := newTestBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := newTestBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	b.Publish(Event{Type: "document.updated", Data: map[string]string{"id": "x"}})
	b.PublishDocumentEvent("updated", "x")
	b.PublishFileEvent("created", "x.md")
}
