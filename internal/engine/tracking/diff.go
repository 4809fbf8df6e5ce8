package tracking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/richedit/internal/engine/model"
	"github.com/dshills/richedit/internal/engine/transform"
)

// DiffResult is a structural diff between two documents with the same
// root, lowered to replace steps over the root content.
type DiffResult struct {
	// Steps turn the old document into the new one. At most one step.
	Steps []transform.Step

	// From and To bound the changed range in the old document.
	From, To int

	// Removed holds the top-level blocks of the old document that the
	// diff replaces; Inserted holds their replacements.
	Removed  []*model.Node
	Inserted []*model.Node
}

// ComputeDiff diffs the content of oldDoc against newDoc.
func ComputeDiff(oldDoc, newDoc *model.Node) DiffResult {
	steps := transform.DiffFragment(oldDoc.Content(), newDoc.Content(), 0)
	result := DiffResult{Steps: steps}
	if len(steps) == 0 {
		return result
	}

	rs := steps[0].(*transform.ReplaceStep)
	result.From, result.To = rs.From, rs.To
	result.Inserted = rs.Slice.Content
	oldDoc.ForEach(func(child *model.Node, offset, _ int) {
		if offset >= rs.From && offset+child.NodeSize() <= rs.To {
			result.Removed = append(result.Removed, child)
		}
	})
	return result
}

// HasChanges returns true if there are any differences.
func (dr DiffResult) HasChanges() bool {
	return len(dr.Steps) > 0
}

// InsertedSize returns the flat size of the inserted content.
func (dr DiffResult) InsertedSize() int {
	return model.ContentSize(dr.Inserted)
}

// DeletedSize returns the flat size of the removed content.
func (dr DiffResult) DeletedSize() int {
	return dr.To - dr.From
}

// Apply applies the diff's steps to doc.
func (dr DiffResult) Apply(doc *model.Node) (*model.Node, error) {
	for _, step := range dr.Steps {
		next, err := step.Apply(doc)
		if err != nil {
			return nil, err
		}
		doc = next
	}
	return doc, nil
}

// String returns a short description of the diff.
func (dr DiffResult) String() string {
	if !dr.HasChanges() {
		return "no changes"
	}
	return fmt.Sprintf("replace [%d, %d) with %d blocks (-%d/+%d)",
		dr.From, dr.To, len(dr.Inserted), dr.DeletedSize(), dr.InsertedSize())
}

// UnifiedDiff renders the diff one block per line, in unified diff format.
// Each block is shown by its type name and text content.
func UnifiedDiff(result DiffResult, oldName, newName string) string {
	if !result.HasChanges() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("--- ")
	sb.WriteString(oldName)
	sb.WriteString("\n")
	sb.WriteString("+++ ")
	sb.WriteString(newName)
	sb.WriteString("\n")

	// Hunk header in flat offsets
	sb.WriteString("@@ -")
	sb.WriteString(strconv.Itoa(result.From))
	sb.WriteString(",")
	sb.WriteString(strconv.Itoa(result.DeletedSize()))
	sb.WriteString(" +")
	sb.WriteString(strconv.Itoa(result.From))
	sb.WriteString(",")
	sb.WriteString(strconv.Itoa(result.InsertedSize()))
	sb.WriteString(" @@\n")

	for _, n := range result.Removed {
		writeBlockLine(&sb, '-', n)
	}
	for _, n := range result.Inserted {
		writeBlockLine(&sb, '+', n)
	}

	return sb.String()
}

func writeBlockLine(sb *strings.Builder, prefix byte, n *model.Node) {
	sb.WriteByte(prefix)
	sb.WriteString(n.Type().Name())
	sb.WriteString(": ")
	sb.WriteString(strconv.Quote(n.TextContent()))
	sb.WriteString("\n")
}
