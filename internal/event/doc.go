// Package event provides the change-notification bus.
//
// The editor publishes an event after every applied edit; hosts, scripts and
// view layers subscribe to it instead of polling the document.
//
// # Event Topics
//
// Events use hierarchical topics with dot notation:
//
//	document.changed    - an edit was applied
//	selection.changed   - the selection was set directly
//	schema.reloaded     - a watched schema file changed
//
// # Wildcard Patterns
//
// Subscriptions support wildcard patterns:
//
//	document.*   - matches document.changed, document.replaced (single segment)
//	**           - matches every topic (multi-segment)
//	*.changed    - matches document.changed, selection.changed
//
// # Delivery
//
// Publish delivers synchronously, in the publisher's goroutine, to every
// matching subscription in priority order (lower values first; equal
// priorities keep subscription order). A failing or panicking handler is
// logged and reported in Publish's joined error; the remaining handlers
// still run.
//
// # Usage
//
//	bus := event.NewBus(event.WithBusLogger(logger))
//
//	sub, _ := bus.Subscribe(events.TopicDocumentChanged, event.AsHandler(
//	    func(ctx context.Context, e event.Event[events.DocumentChanged]) error {
//	        fmt.Println("revision", e.Payload.Revision)
//	        return nil
//	    }))
//	defer bus.Unsubscribe(sub)
package event
