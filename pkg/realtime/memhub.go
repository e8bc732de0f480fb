package realtime

import (
	"errors"
	"sync"
)

// the key under which wildcard subscribers are stored
const allTopics = "*"

type memHub struct {
	sync.RWMutex
	subs map[string][]*memSub
}

// NewHub returns an in-memory hub.
func NewHub() Hub {
	return &memHub{subs: make(map[string][]*memSub)}
}

func (h *memHub) Publish(e *Event) {
	h.RLock()
	defer h.RUnlock()
	for _, sub := range h.subs[e.GistID] {
		sub.send(e)
	}
	for _, sub := range h.subs[allTopics] {
		sub.send(e)
	}
}

func (h *memHub) Subscribe(gistID string) EventChannel {
	return h.subscribe(gistID)
}

func (h *memHub) SubscribeAll() EventChannel {
	return h.subscribe(allTopics)
}

func (h *memHub) subscribe(key string) EventChannel {
	h.Lock()
	defer h.Unlock()
	sub := &memSub{
		hub: h,
		key: key,
		ch:  make(chan *Event, 16),
	}
	h.subs[key] = append(h.subs[key], sub)
	return sub
}

func (h *memHub) remove(s *memSub) bool {
	h.Lock()
	defer h.Unlock()
	subs := h.subs[s.key]
	for i, sub := range subs {
		if sub == s {
			h.subs[s.key] = append(subs[:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

type memSub struct {
	hub    *memHub
	key    string
	ch     chan *Event
	closed sync.Once
}

func (s *memSub) send(e *Event) {
	// a slow subscriber must not block a publisher
	select {
	case s.ch <- e:
	default:
	}
}

func (s *memSub) Read() <-chan *Event { return s.ch }

func (s *memSub) Close() error {
	if !s.hub.remove(s) {
		return errors.New("realtime: closing a closed subscription")
	}
	s.closed.Do(func() { close(s.ch) })
	return nil
}
