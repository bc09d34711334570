package tree

// Step tells the walker how to proceed after an action.
type Step int

const (
	// Descend continues into the children of the visited node.
	Descend Step = iota
	// Skip continues with the next sibling, ignoring children.
	Skip
	// Stop terminates the walk.
	Stop
)

// Action is invoked for a visited node.
type Action func(c *Cursor) Step

// Visitor dispatches visited nodes to actions. Composites are dispatched by
// kind through Kinds, kinds without an entry are descended into. Token and
// List hooks are optional.
type Visitor struct {
	Kinds map[string]Action
	Token Action
	List  Action
}

// On returns a visitor with a single kind action.
func On(kind string, act Action) Visitor {
	return Visitor{Kinds: map[string]Action{kind: act}}
}

// Walk visits node under cursor and all its descendants in pre-order.
// The tree must not be mutated structurally while walk is in progress.
// Consumed cursor visits nothing.
func (c *Cursor) Walk(v Visitor) {
	if c.stale {
		return
	}
	walk(c, v)
}

// walkChildren is Walk that does not visit starting node itself.
func (c *Cursor) walkChildren(v Visitor) {
	if c.stale {
		return
	}
	descend(c, v)
}

// walk returns true when walk has to be terminated.
func walk(c *Cursor, v Visitor) bool {
	var act Action
	switch n := c.node.(type) {
	case *Token:
		act = v.Token
	case *List:
		act = v.List
	case *Composite:
		act = v.Kinds[n.Kind]
	}
	if act != nil {
		switch act(c) {
		case Stop:
			return true
		case Skip:
			return false
		}
	}
	return descend(c, v)
}

func descend(c *Cursor, v Visitor) bool {
	elems, ok := elements(c.node)
	if !ok {
		return false
	}
	for i := range elems {
		if walk(c.child(i), v) {
			return true
		}
	}
	return false
}
