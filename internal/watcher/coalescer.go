package watcher

import (
	"sync"
	"time"
)

// CoalescedEventType represents the type of coalesced event.
type CoalescedEventType int

const (
	EventCreate CoalescedEventType = iota
	EventModify
	EventDelete
)

// CoalescedEvent is a debounced filesystem event. Raw notify events arrive in
// bursts while a file is being written; one CoalescedEvent stands for the
// whole burst.
type CoalescedEvent struct {
	Path      string
	Type      CoalescedEventType
	Timestamp time.Time
}

// Coalescer deduplicates filesystem events per path. An event is held for a
// debounce window and merged with any later events for the same path; only
// when the window passes with no further activity is it emitted. Deletes get
// a longer grace period so a quick delete-then-recreate (how many tools save
// files) collapses into a modify.
type Coalescer struct {
	debounceWindow    time.Duration
	deleteGracePeriod time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	events  chan CoalescedEvent
	stopCh  chan struct{}
	stopped bool
}

type pendingEvent struct {
	event CoalescedEvent
	timer *time.Timer
}

// NewCoalescer creates a Coalescer with the given windows.
func NewCoalescer(debounceWindow, deleteGracePeriod time.Duration) *Coalescer {
	return &Coalescer{
		debounceWindow:    debounceWindow,
		deleteGracePeriod: deleteGracePeriod,
		pending:           make(map[string]*pendingEvent),
		events:            make(chan CoalescedEvent, 1000),
		stopCh:            make(chan struct{}),
	}
}

// Add feeds a raw event into the coalescer.
func (c *Coalescer) Add(event CoalescedEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	path := event.Path

	if pe, exists := c.pending[path]; exists {
		// Late timer fires are safe: emit checks the pending map.
		pe.timer.Stop()

		// A file created and deleted within the window never existed as
		// far as consumers are concerned.
		if pe.event.Type == EventCreate && event.Type == EventDelete {
			delete(c.pending, path)
			return
		}

		pe.event = mergeEvents(pe.event, event)
		pe.timer = time.AfterFunc(c.delayFor(pe.event.Type), func() {
			c.emit(path)
		})
		return
	}

	pe := &pendingEvent{event: event}
	pe.timer = time.AfterFunc(c.delayFor(event.Type), func() {
		c.emit(path)
	})
	c.pending[path] = pe
}

// Events returns the channel of coalesced events.
func (c *Coalescer) Events() <-chan CoalescedEvent {
	return c.events
}

// Stop cancels pending events and closes the event channel.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true

	for path, pe := range c.pending {
		pe.timer.Stop()
		delete(c.pending, path)
	}
	c.mu.Unlock()

	close(c.stopCh)
	close(c.events)
}

func (c *Coalescer) emit(path string) {
	c.mu.Lock()
	pe, exists := c.pending[path]
	if !exists {
		c.mu.Unlock()
		return
	}
	event := pe.event
	delete(c.pending, path)
	c.mu.Unlock()

	select {
	case c.events <- event:
	case <-c.stopCh:
	}
}

// mergeEvents collapses two same-path events into one.
func mergeEvents(old, latest CoalescedEvent) CoalescedEvent {
	merged := CoalescedEvent{Path: latest.Path, Timestamp: latest.Timestamp}

	switch {
	case old.Type == EventCreate && latest.Type == EventModify:
		// Still a brand-new file from the consumer's point of view.
		merged.Type = EventCreate
	case old.Type == EventDelete && latest.Type == EventCreate:
		// Replaced in place.
		merged.Type = EventModify
	default:
		merged.Type = latest.Type
	}

	return merged
}

func (c *Coalescer) delayFor(eventType CoalescedEventType) time.Duration {
	if eventType == EventDelete {
		return c.deleteGracePeriod
	}
	return c.debounceWindow
}

// PendingCount returns the number of pending events (for testing).
func (c *Coalescer) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
