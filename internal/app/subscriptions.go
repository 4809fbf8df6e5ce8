package app

import (
	"context"
	"sync"

	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/events"
	"github.com/dshills/richedit/internal/event/topic"
)

// subscriptionManager manages event bus subscriptions for the application.
type subscriptionManager struct {
	mu            sync.RWMutex
	subscriptions []event.Subscription
	app           *Application
}

// newSubscriptionManager creates a new subscription manager.
func newSubscriptionManager(app *Application) *subscriptionManager {
	return &subscriptionManager{
		subscriptions: make([]event.Subscription, 0, 3),
		app:           app,
	}
}

// setupSubscriptions registers all event subscriptions.
func (sm *subscriptionManager) setupSubscriptions() error {
	if sm.app.eventBus == nil {
		return nil
	}

	// Document changes -> metrics and debug log
	if err := sm.subscribe(events.TopicDocumentChanged,
		event.AsHandler(sm.handleDocumentChanged)); err != nil {
		return err
	}

	// Document replaced -> metrics
	if err := sm.subscribe(events.TopicDocumentReplaced,
		event.AsHandler(sm.handleDocumentReplaced)); err != nil {
		return err
	}

	// Schema reloads -> metrics and info log
	return sm.subscribe(events.TopicSchemaReloaded,
		event.AsHandler(sm.handleSchemaReloaded))
}

// subscribe adds a low priority subscription, so hosts see changes
// before bookkeeping does.
func (sm *subscriptionManager) subscribe(t topic.Topic, h event.Handler) error {
	sub, err := sm.app.eventBus.Subscribe(t, h, event.WithPriority(event.PriorityLow))
	if err != nil {
		return err
	}
	sm.addSubscription(sub)
	return nil
}

func (sm *subscriptionManager) handleDocumentChanged(_ context.Context, ev event.Event[events.DocumentChanged]) error {
	c := ev.Payload
	sm.app.metrics.RecordChange(c.Origin, len(c.Steps))
	sm.app.Logger().Debug("document changed",
		"revision", c.Revision,
		"label", c.Label,
		"origin", c.Origin,
		"steps", len(c.Steps),
		"size", c.Doc.ContentSize(),
	)
	return nil
}

func (sm *subscriptionManager) handleDocumentReplaced(_ context.Context, ev event.Event[events.DocumentReplaced]) error {
	sm.app.metrics.RecordReplace()
	sm.app.Logger().Debug("document replaced", "revision", ev.Payload.Revision)
	return nil
}

func (sm *subscriptionManager) handleSchemaReloaded(_ context.Context, ev event.Event[events.SchemaReloaded]) error {
	sm.app.metrics.RecordSchemaReload()
	sm.app.Logger().Info("schema reloaded",
		"path", ev.Payload.Path,
		"nodes", len(ev.Payload.Schema.NodeTypes()),
		"marks", len(ev.Payload.Schema.MarkTypes()),
	)
	return nil
}

// addSubscription adds a subscription to the managed list.
func (sm *subscriptionManager) addSubscription(sub event.Subscription) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.subscriptions = append(sm.subscriptions, sub)
}

// unsubscribeAll removes all managed subscriptions.
func (sm *subscriptionManager) unsubscribeAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, sub := range sm.subscriptions {
		_ = sm.app.eventBus.Unsubscribe(sub)
	}
	sm.subscriptions = sm.subscriptions[:0]
}

// count returns the number of managed subscriptions.
func (sm *subscriptionManager) count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscriptions)
}
