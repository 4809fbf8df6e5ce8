// Package events defines the typed payloads published by the editor.
//
// Each payload has a topic constant:
//
//	document.changed    - an edit was applied (DocumentChanged)
//	document.replaced   - the whole document was swapped (DocumentReplaced)
//	selection.changed   - the selection moved without an edit
//	schema.reloaded     - a watched schema file was reloaded
//
// Events are created with event.NewEvent:
//
//	evt := event.NewEvent(events.TopicDocumentChanged,
//	    events.DocumentChanged{Revision: rev, Steps: steps, Doc: doc},
//	    "engine",
//	)
//	bus.Publish(ctx, evt)
//
// Subscribers usually wrap a typed function with event.AsHandler:
//
//	bus.Subscribe(events.TopicDocumentChanged, event.AsHandler(
//	    func(ctx context.Context, e event.Event[events.DocumentChanged]) error {
//	        render(e.Payload.Doc)
//	        return nil
//	    }))
package events
