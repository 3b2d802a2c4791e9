package svgicon

// Clone returns a deep copy of the subtree rooted at n.
// Paints are shared, since they are never mutated once parsed.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Path = n.Path.Copy()
	if n.Fill != nil {
		fill := *n.Fill
		out.Fill = &fill
	}
	if n.Stroke != nil {
		stroke := *n.Stroke
		out.Stroke = &stroke
	}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return &out
}

// applyStyle resolves the paints of n from its element style.
func (n *Node) applyStyle(style PathStyle) {
	n.style = style
	n.Fill, n.Stroke = nil, nil
	if n.Kind == GroupNode {
		n.Opacity = style.opacity
		return
	}
	n.Opacity = 1
	if style.FillerColor != nil {
		n.Fill = &Fill{Paint: style.FillerColor, Opacity: style.FillOpacity * style.opacity}
	}
	if style.LinerColor != nil && style.LineWidth > 0 {
		n.Stroke = &Stroke{Paint: style.LinerColor, Opacity: style.LineOpacity * style.opacity, Width: style.LineWidth}
	}
}

// restyle resolves the inherited properties of the subtree
// rooted at n against the style of its new parent.
func (n *Node) restyle(parent PathStyle) {
	style := n.style.inherit(parent)
	n.applyStyle(style)
	for _, child := range n.Children {
		child.restyle(style)
	}
}

// Walk calls fn for n and its descendants, in document order,
// stopping the descent below a node for which fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Count returns the number of nodes of the given kind below
// (and including) the root element.
func (s *SvgIcon) Count(kind NodeKind) int {
	var count int
	s.Root.Walk(func(n *Node) bool {
		if n.Kind == kind {
			count++
		}
		return true
	})
	return count
}
