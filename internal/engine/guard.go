package engine

import (
	"context"

	"github.com/dshills/richedit/internal/engine/history"
	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/position"
	"github.com/dshills/richedit/internal/engine/tracking"
	"github.com/dshills/richedit/internal/engine/transform"
	"github.com/dshills/richedit/internal/event"
	"github.com/dshills/richedit/internal/event/events"
)

// pendingEdit computes a commit against the current state. It runs with
// the editor lock held and returns nil when there is nothing to change.
type pendingEdit func() (*commit, error)

// commit is a computed edit, ready to be swapped in.
type commit struct {
	label  string
	origin events.Origin

	before *model.Node
	after  *model.Node
	steps  []transform.Step

	// mapping maps the selection when selection is nil.
	mapping   *transform.Mapping
	selection *position.Selection

	// addHistory pushes the prior state onto the undo stack.
	addHistory bool

	// replace resets history and the change log.
	replace bool
}

// submitLocked applies edit now, or queues it when a change is still
// propagating. It must be called with the lock held and releases it.
func (e *Editor) submitLocked(edit pendingEdit) (Result, error) {
	if e.readOnly {
		e.mu.Unlock()
		return Result{}, ErrReadOnly
	}
	if e.propagating {
		e.queue = append(e.queue, edit)
		e.mu.Unlock()
		return Result{Deferred: true}, nil
	}

	c, err := edit()
	if err != nil || c == nil {
		rev := e.tracker.Revision()
		e.mu.Unlock()
		return Result{Revision: rev}, err
	}
	res, ev := e.commitLocked(c)
	e.propagating = true
	e.mu.Unlock()

	e.propagate(ev)
	return res, nil
}

// commitLocked swaps in the new document and returns the event to
// publish (must hold lock).
func (e *Editor) commitLocked(c *commit) (Result, any) {
	if c.addHistory {
		e.history.Add(history.Snapshot{Doc: c.before, Selection: e.selection, Label: c.label})
	}

	old := e.selection
	e.doc = c.after
	switch {
	case c.selection != nil:
		e.selection = *c.selection
	case c.mapping != nil:
		e.selection = mapSelection(old, c.before, c.after, c.mapping)
	default:
		e.selection = startSelection(c.after)
	}

	rev := e.tracker.Record(c.label, c.steps, c.after)
	if c.replace {
		e.history.Clear()
		e.tracker.Clear()
		return Result{Revision: rev}, event.NewEvent(events.TopicDocumentReplaced, events.DocumentReplaced{
			Revision: rev,
			Doc:      c.after,
		}, eventSource)
	}

	return Result{Revision: rev, Steps: c.steps}, event.NewEvent(events.TopicDocumentChanged, events.DocumentChanged{
		Revision:  rev,
		Label:     c.label,
		Origin:    c.origin,
		Steps:     c.steps,
		Before:    c.before,
		Doc:       c.after,
		Selection: e.selection,
	}, eventSource)
}

// propagate publishes a change and schedules its acknowledgement. The
// guard stays raised until the acknowledgement runs.
func (e *Editor) propagate(ev any) {
	if err := e.bus.Publish(context.Background(), ev); err != nil {
		e.logger.Warn("change subscriber failed", "error", err)
	}
	e.scheduler.Schedule(e.acknowledge)
}

// acknowledge lowers the guard, applying the next deferred edit first if
// there is one. That edit propagates in turn.
func (e *Editor) acknowledge() {
	for {
		e.mu.Lock()
		if len(e.queue) == 0 {
			e.propagating = false
			e.mu.Unlock()
			return
		}
		edit := e.queue[0]
		e.queue = e.queue[1:]

		c, err := edit()
		if err != nil || c == nil {
			e.mu.Unlock()
			if err != nil {
				e.logger.Warn("deferred edit dropped", "error", err)
			}
			continue
		}
		_, ev := e.commitLocked(c)
		e.mu.Unlock()

		e.propagate(ev)
		return
	}
}

// stepsEdit returns an edit applying steps that were built against the
// document at base. If the document moved on before it runs, the steps
// are rebased over the changes recorded since.
func (e *Editor) stepsEdit(label string, origin events.Origin, base tracking.RevisionID, steps []transform.Step) pendingEdit {
	return func() (*commit, error) {
		if base != e.tracker.Revision() {
			since, err := e.tracker.MappingSince(base)
			if err != nil {
				return nil, err
			}
			steps = rebaseSteps(steps, since)
		}

		tr := transform.New(e.doc)
		for _, step := range steps {
			if err := tr.Step(step); err != nil {
				e.logger.Warn("edit rejected", "label", label, "error", err)
				return nil, err
			}
		}
		if !tr.DocChanged() {
			return nil, nil
		}
		return &commit{
			label:      label,
			origin:     origin,
			before:     tr.Before(),
			after:      tr.Doc(),
			steps:      tr.Steps(),
			mapping:    tr.Mapping(),
			addHistory: true,
		}, nil
	}
}

// rebaseSteps maps steps built on an older document over the changes in
// since. Each step is mapped back through the inverse of the steps before
// it, forward through since, and then through the steps already rebased.
// Steps whose range was deleted are dropped.
//
// Positions inside content inserted by an earlier step of the same edit
// map to the edge of that insertion.
func rebaseSteps(steps []transform.Step, since *transform.Mapping) []transform.Step {
	out := make([]transform.Step, 0, len(steps))
	for i, step := range steps {
		m := transform.NewMapping()
		for j := i - 1; j >= 0; j-- {
			m.AppendMap(steps[j].StepMap().Invert())
		}
		m.AppendMapping(since)
		for _, done := range out {
			m.AppendMap(done.StepMap())
		}

		mapped, ok := step.Map(m)
		if !ok {
			continue
		}
		out = append(out, mapped)
	}
	return out
}

// mapSelection maps a selection through an edit, falling back to the
// start of the document when it cannot be placed.
func mapSelection(sel position.Selection, before, after *model.Node, m *transform.Mapping) position.Selection {
	anchor, head, err := sel.ToFlat(before)
	if err != nil {
		return startSelection(after)
	}
	mapped, err := position.SelectionFromFlat(after, m.Map(anchor, 1), m.Map(head, 1))
	if err != nil {
		return startSelection(after)
	}
	return mapped
}
