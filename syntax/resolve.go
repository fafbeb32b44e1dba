package syntax

// Resolve annotates every node under root with its effective modifiers.
//
// The root receives top with its own deltas applied; every other node
// receives its parent's modifiers with its own deltas applied. Only OpGroup
// nodes carry deltas, so all other nodes simply inherit. Modifiers are passed
// down by value: a group's deltas reach its subtree and nothing else.
//
// Resolve is idempotent. It reads only Add, Remove and the tree shape, so
// running it again over an annotated tree produces the same annotation.
func Resolve(root *Node, top Modifiers) {
	if root == nil {
		return
	}
	root.Mods = top.Apply(root.Add, root.Remove)
	for _, sub := range root.Sub {
		Resolve(sub, root.Mods)
	}
}
