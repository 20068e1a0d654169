// internal/domain/cart/watcher.go
package cart

import (
	"context"
	"fmt"
	"sync"
)

// watcherHub fans out cart snapshots to observers, one topic per
// (user, branch) cart. Subscribers get a buffered channel of size one;
// when an observer lags, the stale snapshot is replaced by the newest so a
// slow consumer never blocks a mutation and always catches up to the latest
// completed write.
type watcherHub struct {
	mu          sync.Mutex
	subscribers map[string]map[*subscriber]struct{}
}

type subscriber struct {
	ch chan []CartLine
}

func newWatcherHub() *watcherHub {
	return &watcherHub{
		subscribers: make(map[string]map[*subscriber]struct{}),
	}
}

func cartKey(userID, branchID uint) string {
	return fmt.Sprintf("%d:%d", userID, branchID)
}

// Subscribe registers an observer for one cart. The subscriber's channel
// closes when ctx is cancelled and the registration is released.
func (h *watcherHub) Subscribe(ctx context.Context, userID, branchID uint) *subscriber {
	sub := &subscriber{ch: make(chan []CartLine, 1)}
	key := cartKey(userID, branchID)

	h.mu.Lock()
	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[*subscriber]struct{})
	}
	h.subscribers[key][sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.unsubscribe(key, sub)
	}()

	return sub
}

func (h *watcherHub) unsubscribe(key string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[key]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}

	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subscribers, key)
	}
	close(sub.ch)
}

// Publish delivers a fresh snapshot to every active observer of the cart.
func (h *watcherHub) Publish(userID, branchID uint, snapshot []CartLine) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subscribers[cartKey(userID, branchID)] {
		sub.send(snapshot)
	}
}

// Deliver sends a snapshot to a single observer, skipping it when the
// registration was already released.
func (h *watcherHub) Deliver(userID, branchID uint, sub *subscriber, snapshot []CartLine) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[cartKey(userID, branchID)][sub]; !ok {
		return
	}
	sub.send(snapshot)
}

// send replaces any undelivered snapshot with the given one. Coalescing keeps
// a slow consumer from ever blocking a mutation while it still catches up to
// the latest completed write. Callers hold the hub mutex.
func (sub *subscriber) send(snapshot []CartLine) {
	select {
	case <-sub.ch:
	default:
	}
	sub.ch <- snapshot
}
