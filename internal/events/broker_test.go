package events

import (
	"context"
	"testing"
)

func TestBrokerFansOutToAllSubscribers(t *testing.T) {
	broker := NewBroker()

	first, cancelFirst := broker.Subscribe(1)
	second, cancelSecond := broker.Subscribe(1)
	defer cancelFirst()
	defer cancelSecond()

	event := Event{ID: "evt-1", Type: TransactionCreated}
	if err := broker.Handle(context.Background(), event); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if got := <-first; got.ID != "evt-1" {
		t.Fatalf("first subscriber got %q", got.ID)
	}
	if got := <-second; got.ID != "evt-1" {
		t.Fatalf("second subscriber got %q", got.ID)
	}
}

func TestBrokerDropsEventsForFullSubscribers(t *testing.T) {
	broker := NewBroker()

	sub, cancel := broker.Subscribe(1)
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := broker.Handle(context.Background(), Event{ID: "evt", Type: TransactionCreated}); err != nil {
			t.Fatalf("handle failed: %v", err)
		}
	}

	// The buffer held one event; the overflow was dropped, not queued.
	<-sub
	select {
	case _, ok := <-sub:
		if ok {
			t.Fatal("expected no second buffered event")
		}
	default:
	}
}

func TestBrokerCancelClosesChannel(t *testing.T) {
	broker := NewBroker()

	sub, cancel := broker.Subscribe(1)
	cancel()

	if _, ok := <-sub; ok {
		t.Fatal("expected channel to be closed after cancel")
	}

	// A second cancel is a no-op.
	cancel()

	if err := broker.Handle(context.Background(), Event{ID: "evt-2", Type: TransactionCreated}); err != nil {
		t.Fatalf("handle after cancel failed: %v", err)
	}
}
