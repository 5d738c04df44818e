package tree

// Item is one display entry in a posted item list: the text to render and a
// back-reference to the node it was projected from. Widgets hand Items back
// to callers to report selection; callers resolve them via Node.
type Item struct {
	text string
	node *Node
}

// Text returns the display text ("name", or "+name" for an entry with
// descendants).
func (it *Item) Text() string { return it.text }

// Node returns the source node the item was projected from. The placeholder
// item installed before the first update has no source node.
func (it *Item) Node() *Node { return it.node }

// Widget is the display-surface contract a View posts into: a vertically
// stacked single-selection list that can swap its item set, be posted and
// un-posted, and be asked to redraw. Implementations report their own
// failure modes (setting items while posted, posting without items,
// operating after Free) as errors; Unpost is idempotent.
type Widget interface {
	SetItems(items []*Item) error
	Post() error
	Unpost() error
	Refresh()
	Free() error
}

// placeholderText seeds the widget before the first update; list widgets
// need a non-empty item set, and the entry is replaced before it can render.
const placeholderText = "..."

// View projects one sibling chain of a tree into the item list of a Widget.
// It owns the posted items and, once freed, the tree below root; it never
// owns node memory while nodes are live, since items only carry
// back-references.
//
// A View displays exactly one level at a time: whatever chain was last
// passed to Update (or the root chain). Every Update is a full rebuild.
type View struct {
	root  *Node
	w     Widget
	items []*Item
	freed bool
}

// NewView binds a view to the head node of a top-level chain and a widget,
// seeds the widget with a single placeholder item, and immediately performs
// an Update against the root chain so the first posted list reflects real
// content. Widget errors propagate. A nil widget is a programming error.
func NewView(root *Node, w Widget) (*View, error) {
	if w == nil {
		panic("tree: NewView with nil widget")
	}

	v := &View{root: root, w: w}
	v.items = []*Item{{text: placeholderText}}
	if err := w.SetItems(v.items); err != nil {
		return nil, err
	}
	if err := v.Update(root); err != nil {
		return nil, err
	}
	return v, nil
}

// Root returns the head node of the view's top-level chain. Nil after Free.
func (v *View) Root() *Node { return v.root }

// Items returns the currently projected item list. The slice is owned by the
// view and replaced wholesale on every Update.
func (v *View) Items() []*Item { return v.items }

// Update rebuilds the posted item list from chain. A nil chain means the
// view's root chain. The chain is walked in order; each node contributes one
// item showing its name, or a cached "+name" label when the node has
// children (the label is derived on first need and reused while still
// cached). The widget's item set is swapped un-posted, then the previous
// item list is released, clearing the labels cached for the level being
// left. After an Update that switches levels, live labels therefore
// correspond one-to-one to children-bearing nodes of the posted chain;
// labels never accumulate across updates.
//
// On a widget error the view keeps its previous items but stays un-posted;
// the swap is best-effort, not transactional. Update on a freed view panics.
func (v *View) Update(chain *Node) error {
	if v.freed {
		panic("tree: Update on freed view")
	}

	if chain == nil {
		chain = v.root
	}
	n := 0
	for t := chain; t != nil; t = t.next {
		n++
	}

	items := make([]*Item, 0, n)
	for t := chain; t != nil; t = t.next {
		text := t.name
		if t.childHead != nil {
			if t.label == "" {
				t.label = "+" + t.name
			}
			text = t.label
		}
		items = append(items, &Item{text: text, node: t})
	}

	if err := v.w.Unpost(); err != nil {
		return err
	}
	if err := v.w.SetItems(items); err != nil {
		return err
	}

	releaseItems(v.items)
	v.items = items

	return nil
}

// Show posts the current item list and requests a redraw. It has no effect
// on tree state and may be called repeatedly. Show on a freed view panics.
func (v *View) Show() error {
	if v.freed {
		panic("tree: Show on freed view")
	}
	if err := v.w.Post(); err != nil {
		return err
	}
	v.w.Refresh()
	return nil
}

// Free un-posts and frees the widget, releases the posted items, and tears
// down the entire tree below root. Terminal: any further Update or Show
// panics. Errors from widget teardown are ignored; the widget contract makes
// Unpost idempotent and Free final.
func (v *View) Free() {
	if v.freed {
		return
	}
	_ = v.w.Unpost()
	_ = v.w.Free()
	releaseItems(v.items)
	v.items = nil
	FreeRecursive(v.root)
	v.root = nil
	v.freed = true
}

// releaseItems clears the cached labels of an item list's source nodes.
// This is the single release path for departed levels; widget-side item
// state is dropped by the SetItems swap that precedes it.
func releaseItems(items []*Item) {
	for _, it := range items {
		if it.node != nil && it.node.label != "" {
			it.node.label = ""
		}
	}
}
