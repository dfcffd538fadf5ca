package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-api/apperr"
	"restaurant-api/logger"
	"restaurant-api/models"
)

func startHub(t *testing.T, buffer int) *Hub {
	t.Helper()
	hub := NewHub(buffer, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, c *Conn) Message {
	t.Helper()
	select {
	case msg, ok := <-c.Events():
		if !ok {
			t.Fatal("connection closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Message{}
}

func expectNone(t *testing.T, c *Conn) {
	t.Helper()
	select {
	case msg := <-c.Events():
		t.Fatalf("unexpected event %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDeliversByTopic(t *testing.T) {
	hub := startHub(t, 16)

	kitchen, err := hub.Connect(models.TopicKitchen)
	if err != nil {
		t.Fatal(err)
	}
	waiter, err := hub.Connect(models.TopicOrders)
	if err != nil {
		t.Fatal(err)
	}

	hub.Publish(models.TopicKitchen, models.StatusEvent{ID: "e1", ToStatus: "preparing"})

	if got := receive(t, kitchen); got.Event.ID != "e1" || got.Topic != models.TopicKitchen {
		t.Errorf("kitchen got %+v", got)
	}
	expectNone(t, waiter)
}

func TestHubPreservesOrderWithinTopic(t *testing.T) {
	hub := startHub(t, 64)
	c, _ := hub.Connect(models.TopicOrders)

	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		hub.Publish(models.TopicOrders, models.StatusEvent{ID: id})
	}
	for _, want := range ids {
		if got := receive(t, c); got.Event.ID != want {
			t.Fatalf("got %s, want %s", got.Event.ID, want)
		}
	}
}

func TestHubJoinLeave(t *testing.T) {
	hub := startHub(t, 16)
	c, _ := hub.Connect()

	hub.Publish(models.TopicBilling, models.StatusEvent{ID: "before"})
	expectNone(t, c)

	if err := hub.Join(c.ID, models.TopicBilling); err != nil {
		t.Fatal(err)
	}
	hub.Publish(models.TopicBilling, models.StatusEvent{ID: "joined"})
	if got := receive(t, c); got.Event.ID != "joined" {
		t.Errorf("got %s, want joined", got.Event.ID)
	}

	if err := hub.Leave(c.ID, models.TopicBilling); err != nil {
		t.Fatal(err)
	}
	hub.Publish(models.TopicBilling, models.StatusEvent{ID: "left"})
	expectNone(t, c)
}

func TestHubErrors(t *testing.T) {
	hub := NewHub(4, logger.Discard())

	if _, err := hub.Connect("bogus"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Connect(bogus) error = %v, want ErrValidation", err)
	}
	if err := hub.Join("missing", models.TopicOrders); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Join(missing) error = %v, want ErrNotFound", err)
	}
	c, _ := hub.Connect()
	if err := hub.Join(c.ID, "bogus"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Join(bogus topic) error = %v, want ErrValidation", err)
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	// Run is not started, so the queue fills up and further events drop.
	hub := NewHub(2, logger.Discard())
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Publish(models.TopicOrders, models.StatusEvent{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestHubSlowSubscriberDropped(t *testing.T) {
	hub := startHub(t, 1)
	slow, _ := hub.Connect(models.TopicOrders)

	hub.Publish(models.TopicOrders, models.StatusEvent{ID: "first"})
	time.Sleep(20 * time.Millisecond)
	hub.Publish(models.TopicOrders, models.StatusEvent{ID: "second"})
	time.Sleep(20 * time.Millisecond)

	if got := receive(t, slow); got.Event.ID != "first" {
		t.Errorf("got %s, want first", got.Event.ID)
	}
	expectNone(t, slow)
}

func TestHubDisconnectClosesChannel(t *testing.T) {
	hub := startHub(t, 4)
	c, _ := hub.Connect(models.TopicOrders)
	hub.Disconnect(c.ID)

	if _, ok := <-c.Events(); ok {
		t.Error("events channel should be closed")
	}
	if hub.Connections() != 0 {
		t.Errorf("Connections() = %d, want 0", hub.Connections())
	}
	// publishing after disconnect must not panic
	hub.Publish(models.TopicOrders, models.StatusEvent{})
}

type recorder struct{ topics []string }

func (r *recorder) Publish(topic string, _ models.StatusEvent) { r.topics = append(r.topics, topic) }

func TestFanout(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Fanout{a, b}.Publish(models.TopicKitchen, models.StatusEvent{})
	if len(a.topics) != 1 || len(b.topics) != 1 {
		t.Errorf("fanout delivered %v and %v", a.topics, b.topics)
	}
}

func TestSubject(t *testing.T) {
	got := subject(models.TopicKitchen, models.StatusEvent{ToStatus: "ready"})
	if got != "restaurant.kitchen.ready" {
		t.Errorf("subject = %q", got)
	}
}
