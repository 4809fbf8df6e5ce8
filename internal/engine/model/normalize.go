package model

// NormalizeInline merges adjacent text nodes with equal mark sets and
// drops empty unmarked text nodes. An unmarked text node holding exactly
// "\n" is a hard break and is never merged with its neighbours.
//
// The result is a new slice; the input is not modified. Applying
// NormalizeInline to its own output returns an equal sequence.
func NormalizeInline(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.IsText() && n.text == "" && len(n.marks) == 0 {
			continue
		}
		if last := len(out) - 1; last >= 0 && mergeable(out[last], n) {
			out[last] = out[last].WithText(out[last].text + n.text)
			continue
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeable(a, b *Node) bool {
	if !a.IsText() || !b.IsText() {
		return false
	}
	if isHardBreak(a) || isHardBreak(b) {
		return false
	}
	return a.attrs.Equal(b.attrs) && SameMarkSet(a.marks, b.marks)
}

func isHardBreak(n *Node) bool {
	return n.text == "\n" && len(n.marks) == 0
}
