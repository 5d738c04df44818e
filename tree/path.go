package tree

import "strings"

// Path returns the slash-terminated path of the chain containing n, built
// from n's ancestors root-first: "/" for a root-level node, "HKLM/" for a
// child of HKLM, "HKLM/SOFTWARE/" one level further down. The node's own
// name is not included; Path names the level, not the entry. This is the
// text a path bar shows for the currently displayed chain.
func (n *Node) Path() string {
	if n == nil {
		return ""
	}
	if n.parent == nil {
		return "/"
	}

	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	parts := make([]string, depth)
	for p := n.parent; p != nil; p = p.parent {
		depth--
		parts[depth] = p.name
	}

	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part)
		b.WriteByte('/')
	}
	return b.String()
}

// PathName returns a rooted identifier for the entry itself: "/" followed by
// every ancestor name and the node's own name, slash-separated. A root-level
// node "HKLM" yields "/HKLM"; its child "SOFTWARE" yields "/HKLM/SOFTWARE".
func (n *Node) PathName() string {
	if n == nil {
		return ""
	}

	depth := 1
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	parts := make([]string, depth)
	depth--
	parts[depth] = n.name
	for p := n.parent; p != nil; p = p.parent {
		depth--
		parts[depth] = p.name
	}

	return "/" + strings.Join(parts, "/")
}
