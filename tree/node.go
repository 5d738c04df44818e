// Package tree implements the navigator's tree core: a node store whose
// siblings form doubly-linked chains with parent and first-child links, and a
// view that projects exactly one sibling chain at a time into an ordered list
// of display items posted to a list widget.
//
// The package is deliberately small and single-threaded. All mutation is
// expected to happen on one goroutine (the terminal event loop); no locking is
// performed. Content never originates here: callers build a node's children
// with New and Append before asking a View to project them.
package tree

// Node is one entry in the hierarchy. Siblings form a doubly-linked chain;
// a parent caches a pointer to the earliest-inserted still-present child so
// the head of a child chain is reachable in O(1).
//
// All links are maintained by New, Append, Pop and the free operations.
// Callers never relink nodes directly.
type Node struct {
	name  string
	label string // cached "+name" display text, set only while projected

	parent    *Node
	childHead *Node
	next      *Node
	prev      *Node

	freed bool
}

// New returns a detached node with the given name. If parent is non-nil and
// has no cached first child yet, the new node becomes that first child.
// Linking the node into a sibling chain is the caller's job, via Append.
func New(parent *Node, name string) *Node {
	n := &Node{name: name}
	if parent != nil {
		if parent.childHead == nil {
			parent.childHead = n
		}
		n.parent = parent
	}
	return n
}

// Append splices sib into the chain immediately after n, preserving any
// existing tail: a node already following n ends up following sib.
func (n *Node) Append(sib *Node) {
	if n.next != nil {
		sib.next = n.next
		n.next.prev = sib
	}
	n.next = sib
	sib.prev = n
}

// Pop removes and returns the node *list currently refers to, re-linking its
// former neighbors to each other. The reference is advanced previous-biased:
// to the previous node when one exists, otherwise to the next, so repeated
// calls drain an entire chain from a single reference regardless of where in
// the chain it started. Returns nil once the chain is empty.
//
// If the popped node is its parent's cached first child, the cache advances
// to the following sibling so it never refers to a detached node.
func Pop(list **Node) *Node {
	n := *list
	if n == nil {
		return nil
	}

	*list = n.prev
	if *list == nil {
		*list = n.next
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if n.parent != nil && n.parent.childHead == n {
		n.parent.childHead = n.next
	}

	n.next = nil
	n.prev = nil

	return n
}

// First returns the head of the sibling chain containing n. With a parent
// present this is the parent's cached first child; root-level chains have no
// parent to consult, so the head is found by walking prev links. Nil-safe.
func (n *Node) First() *Node {
	if n == nil {
		return nil
	}
	if n.parent != nil {
		return n.parent.childHead
	}
	for n.prev != nil {
		n = n.prev
	}
	return n
}

// Free releases a single node. The node must be fully detached: no children,
// no sibling links. Anything else is a programming error and panics, as does
// freeing a node twice.
func (n *Node) Free() {
	if n.childHead != nil {
		panic("tree: Free of node with children")
	}
	if n.next != nil || n.prev != nil {
		panic("tree: Free of node still linked to a sibling chain")
	}
	if n.freed {
		panic("tree: Free of already-freed node")
	}
	n.name = ""
	n.label = ""
	n.parent = nil
	n.freed = true
}

// FreeRecursive drains the chain containing chain via repeated Pop and frees
// every popped node bottom-up: a node's child chain is torn down before the
// node itself. The argument may point anywhere in its chain and need not be
// detached from a parent first. A nil chain is a no-op.
func FreeRecursive(chain *Node) {
	for chain != nil {
		n := Pop(&chain)
		if n.childHead != nil {
			FreeRecursive(n.childHead)
			n.childHead = nil
		}
		n.Free()
	}
}

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// Label returns the cached display label, or "" when none is cached.
// A non-empty label always has the form "+name" and is only present while
// the node's chain is (or was last) projected with children attached.
func (n *Node) Label() string { return n.label }

// Parent returns the node's parent, or nil for a root-level node.
func (n *Node) Parent() *Node { return n.parent }

// FirstChild returns the cached head of the node's child chain, or nil.
func (n *Node) FirstChild() *Node { return n.childHead }

// Next returns the following sibling, or nil at the end of the chain.
func (n *Node) Next() *Node { return n.next }

// Prev returns the preceding sibling, or nil at the head of the chain.
func (n *Node) Prev() *Node { return n.prev }

// HasChildren reports whether the node currently has at least one child.
func (n *Node) HasChildren() bool { return n.childHead != nil }
