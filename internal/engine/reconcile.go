package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/position"
	"github.com/dshills/richedit/internal/engine/transform"
	"github.com/dshills/richedit/internal/event/events"
)

// Reconcile brings the node at parentPath in line with content observed
// in an external surface. Only the span between the common prefix and the
// common suffix of the two child lists is replaced.
func (e *Editor) Reconcile(parentPath []int, newContent []*model.Node) (Result, error) {
	return e.edit(LabelReconcile, events.OriginReconcile, func(doc *model.Node, tr *transform.Transform) error {
		parent, err := position.NodeAt(doc, parentPath)
		if err != nil {
			return err
		}
		start, err := position.NodeStart(doc, parentPath)
		if err != nil {
			return err
		}
		return tr.ReplaceContent(start, parent.Content(), newContent)
	})
}

// ReconcileRange replaces the flat range [from, to) with nodes observed in
// an external surface. When the two ends do not share a parent the
// replace cannot be expressed directly, so the content of the deepest
// node containing both ends is rebuilt and diffed instead.
func (e *Editor) ReconcileRange(from, to int, nodes []*model.Node) (Result, error) {
	return e.edit(LabelReconcile, events.OriginReconcile, func(doc *model.Node, tr *transform.Transform) error {
		rf, err := doc.Resolve(from)
		if err != nil {
			return err
		}
		rt, err := doc.Resolve(to)
		if err != nil {
			return err
		}

		depth := rf.SharedDepth(to)
		if depth == rf.Depth && depth == rt.Depth {
			err := tr.ReplaceWith(from, to, nodes...)
			var rerr *transform.UnsupportedRangeError
			if !errors.As(err, &rerr) {
				return err
			}
			e.logger.Warn("reconciling common ancestor", "error", err)
		} else {
			e.logger.Warn("reconciling common ancestor", "error", &transform.UnsupportedRangeError{
				From:   from,
				To:     to,
				Reason: "range spans blocks that are not siblings",
			})
		}

		ancestor := rf.Node(depth)
		start := rf.Start(depth)
		left := ancestor.Cut(0, from-start).Content()
		right := ancestor.Cut(to-start, ancestor.ContentSize()).Content()
		content := slices.Concat(left, nodes, right)
		if err := tr.ReplaceContent(start, ancestor.Content(), content); err != nil {
			return fmt.Errorf("reconcile %s at %d: %w", ancestor.Type().Name(), start, err)
		}
		return nil
	})
}
