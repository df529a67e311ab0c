package ast

// Children returns the direct children of n in source order. For a property
// these are its key and value.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Object:
		out := make([]Node, 0, len(n.Properties))
		for _, p := range n.Properties {
			out = append(out, p)
		}
		return out
	case *Array:
		return n.Items
	case *Property:
		var out []Node
		if n.Key != nil {
			out = append(out, n.Key)
		}
		if n.Value != nil {
			out = append(out, n.Value)
		}
		return out
	}
	return nil
}

// Walk traverses the tree rooted at n in pre-order. If fn returns false the
// children of the current node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// NodeAt returns the deepest node of the tree rooted at root whose range
// contains off, or nil.
func NodeAt(root Node, off int, includeRightBound bool) Node {
	if root == nil || !root.Range().Contains(off, includeRightBound) {
		return nil
	}
	for _, c := range Children(root) {
		if found := NodeAt(c, off, includeRightBound); found != nil {
			return found
		}
	}
	return root
}

// Path returns the locations leading from the root to n. Properties and
// keys contribute the property name.
func Path(n Node) []Segment {
	var rev []Segment
	for cur := n; cur != nil; cur = cur.Parent() {
		switch c := cur.(type) {
		case *Property:
			if len(rev) == 0 || rev[len(rev)-1] != KeySegment(c.Name()) {
				rev = append(rev, KeySegment(c.Name()))
			}
			continue
		case *String:
			if c.IsKey {
				continue
			}
		}
		if loc := cur.Location(); !loc.IsZero() {
			rev = append(rev, loc)
		}
	}
	out := make([]Segment, len(rev))
	for i, s := range rev {
		out[len(rev)-1-i] = s
	}
	return out
}

// Value converts the tree rooted at n into plain Go values: map[string]any,
// []any, string, float64, bool and nil. Duplicate keys resolve to the last
// occurrence.
func Value(n Node) any {
	switch n := n.(type) {
	case *Object:
		m := make(map[string]any, len(n.Properties))
		for _, p := range n.Properties {
			if p.Key == nil {
				continue
			}
			m[p.Key.Value] = Value(p.Value)
		}
		return m
	case *Array:
		s := make([]any, 0, len(n.Items))
		for _, it := range n.Items {
			s = append(s, Value(it))
		}
		return s
	case *Property:
		return Value(n.Value)
	case *String:
		return n.Value
	case *Number:
		return n.Value
	case *Boolean:
		return n.Value
	}
	return nil
}
