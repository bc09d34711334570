package tree

import (
	"fmt"
	"slices"
)

// frame is a single step of ancestry: container holding next node on the
// path and position of that node inside container's child sequence.
type frame struct {
	container Node
	index     int
}

// Cursor is a handle to a node in a tree together with the path from the
// root. Cursors created by ReplaceWith and Remove consume their receiver:
// any later use of a consumed cursor fails with ErrDetached.
type Cursor struct {
	node  Node
	path  []frame
	stale bool
}

// Wrap returns root cursor for the tree.
func Wrap(root Node) *Cursor {
	return &Cursor{node: root}
}

// Node returns node under cursor.
func (c *Cursor) Node() Node {
	return c.node
}

// Kind returns kind of the node under cursor, empty for tokens and lists.
func (c *Cursor) Kind() string {
	return KindOf(c.node)
}

// Depth returns number of containers between root and node under cursor.
func (c *Cursor) Depth() int {
	return len(c.path)
}

func (c *Cursor) child(i int) *Cursor {
	elems, _ := elements(c.node)
	return &Cursor{node: elems[i], path: appendFrame(c.path, frame{container: c.node, index: i})}
}

func appendFrame(path []frame, f frame) []frame {
	out := make([]frame, len(path)+1)
	copy(out, path)
	out[len(path)] = f
	return out
}

func (c *Cursor) check() error {
	if c.stale {
		return fmt.Errorf("%w: cursor was consumed by an earlier mutation", ErrDetached)
	}
	return nil
}

// Root returns cursor for the root of the tree the node belongs to.
func (c *Cursor) Root() *Cursor {
	if len(c.path) == 0 {
		return &Cursor{node: c.node, stale: c.stale}
	}
	return &Cursor{node: c.path[0].container}
}

// Parent returns the immediate enclosing composite. Untagged lists on the
// way up are skipped.
func (c *Cursor) Parent() (*Cursor, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	for i := len(c.path) - 1; i >= 0; i-- {
		if _, ok := c.path[i].container.(*Composite); ok {
			return &Cursor{node: c.path[i].container, path: slices.Clone(c.path[:i])}, nil
		}
	}
	return nil, fmt.Errorf("%w: node has no enclosing composite", ErrNotFound)
}

// FindParent returns the nearest ancestor composite of the requested kind.
func (c *Cursor) FindParent(kind string) (*Cursor, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	for i := len(c.path) - 1; i >= 0; i-- {
		if KindOf(c.path[i].container) == kind {
			return &Cursor{node: c.path[i].container, path: slices.Clone(c.path[:i])}, nil
		}
	}
	return nil, fmt.Errorf("%w: no ancestor of kind %q", ErrNotFound, kind)
}

// FindAll returns cursors for every descendant composite of the requested
// kind in document order. Result is a snapshot, structural changes made
// after the call may invalidate it. Consumed cursor finds nothing.
func (c *Cursor) FindAll(kind string) []*Cursor {
	var found []*Cursor
	c.walkChildren(On(kind, func(n *Cursor) Step {
		found = append(found, n)
		return Descend
	}))
	return found
}

// FindFirst returns the first descendant composite of the requested kind in
// document order.
func (c *Cursor) FindFirst(kind string) (*Cursor, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	var found *Cursor
	c.walkChildren(On(kind, func(n *Cursor) Step {
		found = n
		return Stop
	}))
	if found == nil {
		return nil, fmt.Errorf("%w: no descendant of kind %q", ErrNotFound, kind)
	}
	return found, nil
}

// FindUntil walks descendants in pre-order and returns the last composite of
// the requested kind met before reaching the node under stop. Stop node
// itself is never returned.
func (c *Cursor) FindUntil(kind string, stop *Cursor) (*Cursor, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if stop == nil {
		return nil, fmt.Errorf("%w: no stop node", ErrNilNode)
	}
	if err := stop.check(); err != nil {
		return nil, err
	}

	var (
		found   *Cursor
		reached bool
	)
	halt := func(n *Cursor) Step {
		if n.node == stop.node {
			reached = true
			return Stop
		}
		return Descend
	}

	v := Visitor{Kinds: map[string]Action{}}
	switch stop.node.(type) {
	case *Token:
		v.Token = halt
	case *List:
		v.List = halt
	case *Composite:
		v.Kinds[stop.Kind()] = halt
	}
	if kind == stop.Kind() {
		v.Kinds[kind] = func(n *Cursor) Step {
			if halt(n) == Stop {
				return Stop
			}
			found = n
			return Descend
		}
	} else {
		v.Kinds[kind] = func(n *Cursor) Step {
			found = n
			return Descend
		}
	}
	c.walkChildren(v)

	if !reached {
		return nil, fmt.Errorf("%w: stop node is not reachable", ErrNotFound)
	}
	if found == nil {
		return nil, fmt.Errorf("%w: no %q before stop node", ErrNotFound, kind)
	}
	return found, nil
}

// FindPrevious returns the last composite of the requested kind that precedes
// node under cursor in document order of the whole tree. Ancestors precede
// their descendants.
func (c *Cursor) FindPrevious(kind string) (*Cursor, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.Root().FindUntil(kind, c)
}

// slot locates node under cursor in its immediate container.
func (c *Cursor) slot() (Node, int, error) {
	if err := c.check(); err != nil {
		return nil, -1, err
	}
	if len(c.path) == 0 {
		return nil, -1, fmt.Errorf("%w: root node has no container", ErrDetached)
	}
	f := c.path[len(c.path)-1]
	elems, _ := elements(f.container)
	if f.index < len(elems) && elems[f.index] == c.node {
		return f.container, f.index, nil
	}
	// siblings were inserted or removed since cursor was created
	if idx := slices.IndexFunc(elems, func(e Node) bool { return e == c.node }); idx >= 0 {
		return f.container, idx, nil
	}
	return nil, -1, ErrDetached
}

func (c *Cursor) consume() {
	c.path = nil
	c.stale = true
}

// ReplaceWith puts n into the slot occupied by node under cursor. The
// receiver is consumed, returned cursor points to n.
func (c *Cursor) ReplaceWith(n Node) (*Cursor, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	container, idx, err := c.slot()
	if err != nil {
		return nil, err
	}
	elems, _ := elements(container)
	elems[idx] = n

	path := slices.Clone(c.path)
	path[len(path)-1].index = idx
	c.consume()
	return &Cursor{node: n, path: path}, nil
}

// Remove empties the slot occupied by node under cursor. The slot itself is
// kept (holding an empty list) so positions of siblings do not change. The
// receiver is consumed.
func (c *Cursor) Remove() error {
	container, idx, err := c.slot()
	if err != nil {
		return err
	}
	elems, _ := elements(container)
	elems[idx] = NewList()
	c.consume()
	return nil
}

// PrependElement inserts n in front of child sequence of node under cursor.
func (c *Cursor) PrependElement(n Node) error {
	return c.insert(n, 0)
}

// AppendElement adds n to the end of child sequence of node under cursor.
func (c *Cursor) AppendElement(n Node) error {
	return c.insert(n, -1)
}

func (c *Cursor) insert(n Node, at int) error {
	if err := c.check(); err != nil {
		return err
	}
	if n == nil {
		return ErrNilNode
	}
	elems, ok := elements(c.node)
	if !ok {
		return fmt.Errorf("%w: cannot insert into a token", ErrNotComposite)
	}
	if at < 0 {
		at = len(elems)
	}
	setElements(c.node, slices.Insert(elems, at, n))
	return nil
}
