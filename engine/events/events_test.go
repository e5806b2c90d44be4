package events

import (
	"testing"

	"github.com/nathoo/arcanum/types"
)

func TestNotifier_FanOutInSubscriptionOrder(t *testing.T) {
	n := NewNotifier()
	var got []string

	n.Subscribe(func(types.Change) { got = append(got, "first") })
	n.Subscribe(func(types.Change) { got = append(got, "second") })
	n.Subscribe(func(types.Change) { got = append(got, "third") })

	n.Notify(types.Change{Namespace: "flags", Key: "k"})

	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("expected %d deliveries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delivery %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNotifier_DeliveryIsSynchronous(t *testing.T) {
	n := NewNotifier()
	delivered := false
	n.Subscribe(func(types.Change) { delivered = true })

	n.Notify(types.Change{Namespace: "flags", Key: "k"})
	if !delivered {
		t.Error("expected delivery before Notify returns")
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := NewNotifier()
	count := 0
	unsub := n.Subscribe(func(types.Change) { count++ })

	n.Notify(types.Change{})
	unsub()
	n.Notify(types.Change{})

	if count != 1 {
		t.Errorf("expected 1 delivery after unsubscribe, got %d", count)
	}
	if n.Len() != 0 {
		t.Errorf("Len = %d, want 0", n.Len())
	}
}

func TestNotifier_UnsubscribeTwice_Safe(t *testing.T) {
	n := NewNotifier()
	unsub := n.Subscribe(func(types.Change) {})
	unsub()
	unsub() // no-op
	if n.Len() != 0 {
		t.Errorf("Len = %d, want 0", n.Len())
	}
}

func TestNotifier_UnsubscribePreservesOrder(t *testing.T) {
	n := NewNotifier()
	var got []string

	n.Subscribe(func(types.Change) { got = append(got, "a") })
	unsubB := n.Subscribe(func(types.Change) { got = append(got, "b") })
	n.Subscribe(func(types.Change) { got = append(got, "c") })

	unsubB()
	n.Notify(types.Change{})

	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("deliveries = %v, want [a c]", got)
	}
}

func TestNotifier_UnsubscribeSelfDuringNotify(t *testing.T) {
	n := NewNotifier()
	var got []string

	var unsubA func()
	unsubA = n.Subscribe(func(types.Change) {
		got = append(got, "a")
		unsubA()
	})
	n.Subscribe(func(types.Change) { got = append(got, "b") })
	n.Subscribe(func(types.Change) { got = append(got, "c") })

	n.Notify(types.Change{})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("deliveries = %v, want [a b c]", got)
	}

	got = nil
	n.Notify(types.Change{})
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("deliveries after self-unsubscribe = %v, want [b c]", got)
	}
}

func TestNotifier_UnsubscribeEarlierDuringNotify(t *testing.T) {
	n := NewNotifier()
	var got []string

	unsubA := n.Subscribe(func(types.Change) { got = append(got, "a") })
	n.Subscribe(func(types.Change) {
		got = append(got, "b")
		unsubA()
	})
	n.Subscribe(func(types.Change) { got = append(got, "c") })

	n.Notify(types.Change{})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("deliveries = %v, want [a b c]", got)
	}
}

func TestBus_PublishInOrder(t *testing.T) {
	b := NewBus()
	var got []int

	b.Subscribe(func(types.QuestEvent) { got = append(got, 1) })
	b.Subscribe(func(types.QuestEvent) { got = append(got, 2) })

	b.Publish(types.QuestEvent{Type: types.EventQuestStart, QuestID: "q1"})

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("deliveries = %v, want [1 2]", got)
	}
}

func TestBus_EventPayload(t *testing.T) {
	b := NewBus()
	var received types.QuestEvent
	b.Subscribe(func(ev types.QuestEvent) { received = ev })

	b.Publish(types.QuestEvent{
		Type:        types.EventObjectiveComplete,
		QuestID:     "missing_cat",
		StageID:     "search",
		ObjectiveID: "find_cat",
	})

	if received.Type != types.EventObjectiveComplete {
		t.Errorf("Type = %q", received.Type)
	}
	if received.QuestID != "missing_cat" || received.StageID != "search" || received.ObjectiveID != "find_cat" {
		t.Errorf("payload = %+v", received)
	}
}

func TestBus_UnsubscribeSelfDuringPublish(t *testing.T) {
	b := NewBus()
	var got []int

	var unsub func()
	unsub = b.Subscribe(func(types.QuestEvent) {
		got = append(got, 1)
		unsub()
	})
	b.Subscribe(func(types.QuestEvent) { got = append(got, 2) })
	b.Subscribe(func(types.QuestEvent) { got = append(got, 3) })

	b.Publish(types.QuestEvent{})
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("deliveries = %v, want [1 2 3]", got)
	}

	got = nil
	b.Publish(types.QuestEvent{})
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("deliveries after self-unsubscribe = %v, want [2 3]", got)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	count := 0
	unsub := b.Subscribe(func(types.QuestEvent) { count++ })

	b.Publish(types.QuestEvent{})
	unsub()
	b.Publish(types.QuestEvent{})

	if count != 1 {
		t.Errorf("expected 1 delivery after unsubscribe, got %d", count)
	}
}
