// Package walker drives a depth-first traversal of a parsed markdown tree,
// tracking the ancestry of the node being visited.
package walker

import "github.com/donaldgifford/mdlint/internal/parser"

// State describes the current position of a walk: the visited node and
// every ancestor above it, outermost first.
type State struct {
	stack []*parser.Node
}

// NewState returns a state positioned at the last node of path. The path
// is copied. It is mostly useful for tests and for evaluating rules
// outside of a walk.
func NewState(path ...*parser.Node) *State {
	s := &State{stack: make([]*parser.Node, len(path))}
	copy(s.stack, path)
	return s
}

// Stack returns the nodes from the root down to the current node. The
// slice is only valid until the walk moves on.
func (s *State) Stack() []*parser.Node {
	return s.stack
}

// Node returns the node being visited, or nil before the walk starts.
func (s *State) Node() *parser.Node {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// Parent returns the parent of the current node, or nil at the root.
func (s *State) Parent() *parser.Node {
	if len(s.stack) < 2 {
		return nil
	}
	return s.stack[len(s.stack)-2]
}

// Depth returns the number of ancestors of the current node.
func (s *State) Depth() int {
	if len(s.stack) == 0 {
		return 0
	}
	return len(s.stack) - 1
}

// Visitor is called once per node with the node's rendered content.
type Visitor func(node *parser.Node, state *State, content string) error

// Walk visits root and all of its descendants in depth-first pre-order.
// Walking stops at the first error returned by fn.
func Walk(root *parser.Node, fn Visitor) error {
	if root == nil {
		return nil
	}
	s := &State{}
	return s.visit(root, fn)
}

func (s *State) visit(n *parser.Node, fn Visitor) error {
	s.stack = append(s.stack, n)
	defer func() { s.stack = s.stack[:len(s.stack)-1] }()

	if err := fn(n, s, n.Content()); err != nil {
		return err
	}

	for _, c := range n.Children {
		if err := s.visit(c, fn); err != nil {
			return err
		}
	}
	return nil
}
