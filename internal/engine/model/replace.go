package model

import "fmt"

// Replace returns a copy of the node with the content between two
// content-relative offsets replaced by slice. Open sides of the slice are
// joined with the nodes at the range boundaries; every rebuilt node is
// revalidated and inline content is normalized.
func (n *Node) Replace(from, to int, slice *Slice) (*Node, error) {
	if from > to {
		return nil, &PositionError{Op: "replace", Offset: from, Err: ErrPositionOutOfRange}
	}
	rf, err := n.Resolve(from)
	if err != nil {
		return nil, err
	}
	rt, err := n.Resolve(to)
	if err != nil {
		return nil, err
	}
	return replace(rf, rt, slice)
}

func replace(from, to *ResolvedPos, slice *Slice) (*Node, error) {
	if slice.OpenStart > from.Depth {
		return nil, &ReplaceError{Message: "inserted content deeper than insertion position"}
	}
	if from.Depth-slice.OpenStart != to.Depth-slice.OpenEnd {
		return nil, &ReplaceError{Message: "inconsistent open depths"}
	}
	return replaceOuter(from, to, slice, 0)
}

func replaceOuter(from, to *ResolvedPos, slice *Slice, depth int) (*Node, error) {
	index := from.Index(depth)
	node := from.Node(depth)

	switch {
	case index == to.Index(depth) && depth < from.Depth-slice.OpenStart:
		inner, err := replaceOuter(from, to, slice, depth+1)
		if err != nil {
			return nil, err
		}
		content := make([]*Node, len(node.content))
		copy(content, node.content)
		content[index] = inner
		return closeNode(node, content), nil

	case len(slice.Content) == 0:
		content, err := replaceTwoWay(from, to, depth)
		if err != nil {
			return nil, err
		}
		return closeNode(node, content), nil

	case slice.OpenStart == 0 && slice.OpenEnd == 0 && from.Depth == depth && to.Depth == depth:
		parent := from.Parent()
		var content []*Node
		for _, c := range cutContent(parent.content, 0, from.ParentOffset) {
			addNode(c, &content)
		}
		for _, c := range slice.Content {
			addNode(c, &content)
		}
		for _, c := range cutContent(parent.content, to.ParentOffset, parent.ContentSize()) {
			addNode(c, &content)
		}
		return closeNode(parent, content), nil

	default:
		start, end, err := prepareSliceForReplace(slice, from)
		if err != nil {
			return nil, err
		}
		content, err := replaceThreeWay(from, start, end, to, depth)
		if err != nil {
			return nil, err
		}
		return closeNode(node, content), nil
	}
}

func checkJoin(main, sub *Node) error {
	if !sub.typ.CompatibleContent(main.typ) {
		return &ReplaceError{Message: fmt.Sprintf("cannot join %s onto %s", sub.typ.name, main.typ.name)}
	}
	return nil
}

func joinable(before, after *ResolvedPos, depth int) (*Node, error) {
	node := before.Node(depth)
	if err := checkJoin(node, after.Node(depth)); err != nil {
		return nil, err
	}
	return node, nil
}

// addNode appends child, merging it into a preceding text node with the
// same markup.
func addNode(child *Node, target *[]*Node) {
	t := *target
	if last := len(t) - 1; last >= 0 && child.IsText() && t[last].IsText() && child.SameMarkup(t[last]) {
		t[last] = t[last].WithText(t[last].text + child.text)
		return
	}
	*target = append(t, child)
}

// addRange appends the children of the node at depth between start and
// end. A nil start means from the beginning, a nil end to the end.
func addRange(start, end *ResolvedPos, depth int, target *[]*Node) {
	ref := end
	if ref == nil {
		ref = start
	}
	node := ref.Node(depth)
	startIndex, endIndex := 0, node.ChildCount()
	if end != nil {
		endIndex = end.Index(depth)
	}
	if start != nil {
		startIndex = start.Index(depth)
		if start.Depth > depth {
			startIndex++
		} else if start.TextOffset() > 0 {
			addNode(start.NodeAfter(), target)
			startIndex++
		}
	}
	for i := startIndex; i < endIndex; i++ {
		addNode(node.content[i], target)
	}
	if end != nil && end.Depth == depth && end.TextOffset() > 0 {
		addNode(end.NodeBefore(), target)
	}
}

// closeNode rebuilds node around content through its schema.
func closeNode(node *Node, content []*Node) *Node {
	if node.InlineContent() {
		content = NormalizeInline(content)
	}
	return node.typ.schema.copyNode(node, content, true)
}

func replaceThreeWay(from, start, end, to *ResolvedPos, depth int) ([]*Node, error) {
	var openStart, openEnd *Node
	var err error
	if from.Depth > depth {
		if openStart, err = joinable(from, start, depth+1); err != nil {
			return nil, err
		}
	}
	if to.Depth > depth {
		if openEnd, err = joinable(end, to, depth+1); err != nil {
			return nil, err
		}
	}

	var content []*Node
	addRange(nil, from, depth, &content)
	if openStart != nil && openEnd != nil && start.Index(depth) == end.Index(depth) {
		if err := checkJoin(openStart, openEnd); err != nil {
			return nil, err
		}
		inner, err := replaceThreeWay(from, start, end, to, depth+1)
		if err != nil {
			return nil, err
		}
		addNode(closeNode(openStart, inner), &content)
	} else {
		if openStart != nil {
			inner, err := replaceTwoWay(from, start, depth+1)
			if err != nil {
				return nil, err
			}
			addNode(closeNode(openStart, inner), &content)
		}
		addRange(start, end, depth, &content)
		if openEnd != nil {
			inner, err := replaceTwoWay(end, to, depth+1)
			if err != nil {
				return nil, err
			}
			addNode(closeNode(openEnd, inner), &content)
		}
	}
	addRange(to, nil, depth, &content)
	return content, nil
}

func replaceTwoWay(from, to *ResolvedPos, depth int) ([]*Node, error) {
	var content []*Node
	addRange(nil, from, depth, &content)
	if from.Depth > depth {
		node, err := joinable(from, to, depth+1)
		if err != nil {
			return nil, err
		}
		inner, err := replaceTwoWay(from, to, depth+1)
		if err != nil {
			return nil, err
		}
		addNode(closeNode(node, inner), &content)
	}
	addRange(to, nil, depth, &content)
	return content, nil
}

// prepareSliceForReplace wraps the slice in copies of the ancestors of
// along so that its open sides can be resolved at matching depths.
func prepareSliceForReplace(slice *Slice, along *ResolvedPos) (*ResolvedPos, *ResolvedPos, error) {
	extra := along.Depth - slice.OpenStart
	parent := along.Node(extra)
	node := parent.typ.schema.copyNode(parent, slice.Content, false)
	for i := extra - 1; i >= 0; i-- {
		anc := along.Node(i)
		node = anc.typ.schema.copyNode(anc, []*Node{node}, false)
	}
	start, err := node.Resolve(slice.OpenStart + extra)
	if err != nil {
		return nil, nil, err
	}
	end, err := node.Resolve(node.ContentSize() - slice.OpenEnd - extra)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}
