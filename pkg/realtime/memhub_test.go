package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealtime(t *testing.T) {
	h := NewHub()
	c1 := h.Subscribe("g1")
	c2 := h.Subscribe("g1")
	c3 := h.SubscribeAll()
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		for e := range c1.Read() {
			assert.Equal(t, "g1", e.GistID)
			break
		}
		wg.Done()
	}()

	wg.Add(1)
	go func() {
		for e := range c2.Read() {
			assert.Equal(t, "g1", e.GistID)
			break
		}
		wg.Done()
	}()

	wg.Add(1)
	go func() {
		for e := range c3.Read() {
			assert.Equal(t, EventCreate, e.Verb)
			assert.Equal(t, "g1", e.GistID)
			break
		}
		wg.Done()
	}()

	time.AfterFunc(1*time.Millisecond, func() {
		h.Publish(&Event{
			Verb:    EventCreate,
			GistID:  "g1",
			Name:    "a.txt",
			Address: "gist://g1/a.txt",
		})
	})

	wg.Wait()

	assert.NoError(t, c1.Close())
	assert.NoError(t, c2.Close())
	assert.NoError(t, c3.Close())
	assert.Error(t, c1.Close())
}

func TestSubscribersAreScopedToTheirGist(t *testing.T) {
	h := NewHub()
	other := h.Subscribe("other")
	defer other.Close()
	mine := h.Subscribe("g1")
	defer mine.Close()

	h.Publish(&Event{Verb: EventUpdate, GistID: "g1", Name: "a.txt"})

	select {
	case e := <-mine.Read():
		assert.Equal(t, "a.txt", e.Name)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	select {
	case e := <-other.Read():
		t.Fatalf("unexpected event %v", e)
	default:
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	h := NewHub()
	sub := h.Subscribe("g1")
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		// nobody reads: publishing more than the buffer must not hang
		for i := 0; i < 100; i++ {
			h.Publish(&Event{Verb: EventUpdate, GistID: "g1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
