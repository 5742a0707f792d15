package feed

import "testing"

func TestFeed_PublishSubscribe(t *testing.T) {
	bus := New()
	sub1 := bus.Subscribe(1)
	sub2 := bus.Subscribe(1)
	defer sub1.Close()
	defer sub2.Close()

	evt := Event{Kind: KindVisitor, Payload: "v1"}
	bus.Publish(evt)

	for i, sub := range []*Subscription{sub1, sub2} {
		select {
		case got := <-sub.C():
			if got != evt {
				t.Errorf("sub%d received %+v, want %+v", i+1, got, evt)
			}
		default:
			t.Errorf("sub%d received nothing", i+1)
		}
	}
}

func TestFeed_PublishNeverBlocks(t *testing.T) {
	bus := New()
	sub := bus.Subscribe(1)
	defer sub.Close()

	// the second event is dropped, not queued
	bus.Publish(Event{Kind: KindClick, Payload: "c1"})
	bus.Publish(Event{Kind: KindClick, Payload: "c2"})

	got := <-sub.C()
	if got.Payload != "c1" {
		t.Errorf("Payload = %v, want c1", got.Payload)
	}
	select {
	case evt := <-sub.C():
		t.Errorf("unexpected second event %+v", evt)
	default:
	}
}

func TestFeed_Close(t *testing.T) {
	bus := New()
	sub := bus.Subscribe(1)

	sub.Close()
	sub.Close() // idempotent

	if _, ok := <-sub.C(); ok {
		t.Error("channel still open after Close()")
	}
	bus.Publish(Event{Kind: KindQuery}) // no panic on closed subscription
}

func TestFeed_NilSafePublish(t *testing.T) {
	var bus *Feed
	bus.Publish(Event{Kind: KindVisitor}) // no panic
}
