package arbor

import "iter"

// Children returns a lazy sequence over n's direct children, named and
// anonymous, in document order. Each range loop walks the children afresh
// with its own [Cursor], so the sequence may be ranged over any number of
// times; breaking out of the loop releases that cursor.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		c := n.Walk()
		defer c.Close()
		if !c.GotoFirstChild() {
			return
		}
		for {
			if !yield(c.CurrentNode()) {
				return
			}
			if !c.GotoNextSibling() {
				return
			}
		}
	}
}

// NamedChildren returns a lazy sequence over n's named children only, in
// document order.
func (n *Node) NamedChildren() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for child := range n.Children() {
			if child.IsNamed() && !yield(child) {
				return
			}
		}
	}
}
