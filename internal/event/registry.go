package event

import (
	"slices"
	"sync"

	"github.com/dshills/richedit/internal/event/topic"
)

// registry holds subscriptions in priority order. Subscriptions with equal
// priority keep subscription order.
type registry struct {
	mu   sync.RWMutex
	subs []*subscription
}

func newRegistry() *registry {
	return &registry{}
}

// add inserts a subscription after every subscription of lower or equal
// priority.
func (r *registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := len(r.subs)
	for i > 0 && r.subs[i-1].config.Priority > sub.config.Priority {
		i--
	}
	r.subs = slices.Insert(r.subs, i, sub)
}

// remove removes a subscription by ID.
func (r *registry) remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.subs, func(s *subscription) bool { return s.id == subID })
	if i < 0 {
		return false
	}
	r.subs = slices.Delete(r.subs, i, i+1)
	return true
}

// matchActive returns the active subscriptions whose pattern matches
// eventTopic, in delivery order. The result is a copy.
func (r *registry) matchActive(eventTopic topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*subscription
	for _, sub := range r.subs {
		if sub.IsActive() && eventTopic.Matches(sub.topic) {
			result = append(result, sub)
		}
	}
	return result
}

// countActive returns the number of active subscriptions.
func (r *registry) countActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sub := range r.subs {
		if sub.IsActive() {
			count++
		}
	}
	return count
}
