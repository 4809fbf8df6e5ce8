package event

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/richedit/internal/event/topic"
)

// Bus delivers events to subscribers.
type Bus interface {
	// Publish delivers event to every matching subscriber, in priority
	// order, before returning. Handler failures do not stop delivery; they
	// are joined into the returned error.
	Publish(ctx context.Context, event any) error

	// Subscription
	Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error

	// Delivery control
	Pause()
	Resume()
	IsPaused() bool

	// Status
	Stats() Stats
}

// bus is the default Bus implementation. Delivery is synchronous in the
// publisher's goroutine.
type bus struct {
	registry *registry
	config   busConfig
	paused   atomic.Bool

	// Stats
	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new event bus with the given options.
func NewBus(opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &bus{
		registry: newRegistry(),
		config:   config,
	}
}

// Pause temporarily stops event delivery.
// Events can still be published but are dropped.
func (b *bus) Pause() {
	b.paused.Store(true)
}

// Resume restarts event delivery after a pause.
func (b *bus) Resume() {
	b.paused.Store(false)
}

// IsPaused returns true if the bus is paused.
func (b *bus) IsPaused() bool {
	return b.paused.Load()
}

// Publish implements Bus.
func (b *bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}
	if b.paused.Load() {
		return nil // Silently drop when paused
	}

	eventTopic := tp.EventTopic()
	b.eventsPublished.Add(1)

	var errs []error
	for _, sub := range b.registry.matchActive(eventTopic) {
		if !sub.shouldDeliver(event) {
			continue
		}
		if err := b.deliver(ctx, sub, event); err != nil {
			errs = append(errs, err)
			continue
		}
		b.eventsDelivered.Add(1)

		// Handle one-time subscriptions
		if sub.config.Once {
			sub.Cancel()
			b.registry.remove(sub.id)
		}
	}
	return errors.Join(errs...)
}

// deliver runs one handler, turning a panic into a PanicError.
func (b *bus) deliver(ctx context.Context, sub *subscription, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			b.config.logger.Error("event handler panicked",
				"subscription", sub.id, "topic", sub.topic.String(), "panic", r)
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, sub, r)
			}
			err = &PanicError{SubscriptionID: sub.id, Topic: sub.topic.String(), Value: r}
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.handlerErrors.Add(1)
		b.config.logger.Warn("event handler failed",
			"subscription", sub.id, "topic", sub.topic.String(), "error", herr)
		return &HandlerError{SubscriptionID: sub.id, Topic: sub.topic.String(), Err: herr}
	}
	return nil
}

// Subscribe creates a new subscription for the given topic pattern.
// This method is safe to call concurrently.
func (b *bus) Subscribe(topicPattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !topicPattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(uuid.NewString(), topicPattern, handler, opts...)
	b.registry.add(sub)
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(topicPattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(topicPattern, fn, opts...)
}

// Unsubscribe removes a subscription.
// This method is safe to call concurrently.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	sub.Cancel()
	if !b.registry.remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.countActive(),
	}
}
