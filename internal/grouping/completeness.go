package grouping

// IsComplete reports whether a unit with the given number of locale items
// covers every active locale.
func IsComplete(items, totalLocales int) bool {
	return items >= totalLocales
}

// AllComplete reports whether every child is complete.
func AllComplete(children []*Node) bool {
	for _, c := range children {
		if !c.Complete {
			return false
		}
	}
	return true
}

// Recompute re-evaluates completeness of an existing tree against a new
// locale count. It must run whenever the locale registry changes.
func Recompute(nodes []*Node, totalLocales int) {
	for _, n := range nodes {
		if n.HasChildren() {
			Recompute(n.Children, totalLocales)
			n.Complete = AllComplete(n.Children)
			continue
		}
		n.Complete = IsComplete(len(n.Items), totalLocales)
	}
}
