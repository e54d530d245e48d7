// Package events fans engagement events out to observers after commit.
package events

import (
	"log"
	"sync"

	"gofun/internal/common"
)

// Bus is the engagement Subject. With workers it delivers in the background
// and drops events when the queue is full; with none it delivers inline.
type Bus struct {
	observers map[string]common.Observer
	queue     chan common.EngagementEvent
	workers   int
	closed    bool
	mu        sync.RWMutex
	wg        sync.WaitGroup
}

var _ common.Subject = (*Bus)(nil)

func NewBus(workers, queueSize int) *Bus {
	if queueSize <= 0 {
		queueSize = 1000
	}
	b := &Bus{
		observers: make(map[string]common.Observer),
		workers:   workers,
	}
	if workers > 0 {
		b.queue = make(chan common.EngagementEvent, queueSize)
		for i := 0; i < workers; i++ {
			b.wg.Add(1)
			go b.processEvents()
		}
	}
	return b
}

func (b *Bus) Subscribe(observer common.Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers[observer.Name()] = observer
	log.Printf("Observer %s subscribed", observer.Name())
}

func (b *Bus) Unsubscribe(observer common.Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.observers, observer.Name())
	log.Printf("Observer %s unsubscribed", observer.Name())
}

func (b *Bus) Notify(event common.EngagementEvent) {
	if b.workers == 0 {
		b.Publish(event)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		log.Printf("Event bus closed, dropping event: %s", event.Type)
		return
	}
	select {
	case b.queue <- event:
	default:
		log.Printf("Event queue full, dropping event: %s", event.Type)
	}
}

// Publish delivers to every observer in the calling goroutine. Failures are
// logged per observer and never returned.
func (b *Bus) Publish(event common.EngagementEvent) {
	b.mu.RLock()
	observers := make([]common.Observer, 0, len(b.observers))
	for _, obs := range b.observers {
		observers = append(observers, obs)
	}
	b.mu.RUnlock()

	for _, observer := range observers {
		if err := observer.Update(event); err != nil {
			log.Printf("Observer %s update failed: %v", observer.Name(), err)
		}
	}
}

func (b *Bus) processEvents() {
	defer b.wg.Done()
	for event := range b.queue {
		b.Publish(event)
	}
}

// Shutdown stops accepting events and waits for the queue to drain.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	if b.queue != nil {
		close(b.queue)
	}
	b.mu.Unlock()

	b.wg.Wait()
	log.Println("Event bus shutdown complete")
}
