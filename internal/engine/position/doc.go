// Package position provides path-based addressing into a document tree.
//
// A ModelPosition is a path of child indices from the root down to the
// direct parent of the addressed location, plus an offset. When the parent
// is a text node the offset counts characters; otherwise it is a child
// index:
//
//	doc( paragraph("Hello") )
//
//	{Path: [0 0], Offset: 1}   between "H" and "ello"
//	{Path: [0],   Offset: 1}   after the text node, at the end of the paragraph
//	{Path: [],    Offset: 1}   after the paragraph
//
// ToFlatOffset and FromFlatOffset convert between paths and the flat
// offsets used by steps and resolved positions. They are exact inverses
// over [0, root.ContentSize()]. An offset at the start of a text node
// resolves to its parent at that child index, never into the text node.
//
// MapPosition moves a stale position across a described change so it stays
// meaningful in the new tree.
package position
