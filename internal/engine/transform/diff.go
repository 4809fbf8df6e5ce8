package transform

import "github.com/dshills/richedit/internal/engine/model"

// DiffFragment returns the steps turning oldNodes into newNodes, where
// oldNodes starts at flat offset start. It returns at most one
// ReplaceStep, covering the span between the longest common prefix and
// the longest common suffix, and no steps when the sequences are equal.
func DiffFragment(oldNodes, newNodes []*model.Node, start int) []Step {
	firstDiff := 0
	for firstDiff < len(oldNodes) && firstDiff < len(newNodes) && oldNodes[firstDiff].Eq(newNodes[firstDiff]) {
		firstDiff++
	}
	if firstDiff == len(oldNodes) && firstDiff == len(newNodes) {
		return nil
	}

	lastOld, lastNew := len(oldNodes), len(newNodes)
	for lastOld > firstDiff && lastNew > firstDiff && oldNodes[lastOld-1].Eq(newNodes[lastNew-1]) {
		lastOld--
		lastNew--
	}

	from := start + model.ContentSize(oldNodes[:firstDiff])
	to := from + model.ContentSize(oldNodes[firstDiff:lastOld])

	content := make([]*model.Node, lastNew-firstDiff)
	copy(content, newNodes[firstDiff:lastNew])
	slice := EmptySlice
	if len(content) > 0 {
		slice = NewSlice(content, 0, 0)
	}
	return []Step{NewReplaceStep(from, to, slice)}
}
