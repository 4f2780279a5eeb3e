// Package selector implements the small query language rules use to decide
// which nodes of a markdown tree they apply to.
//
// A query is one or more comma separated alternatives. Each alternative is
// a chain of compound selectors joined by whitespace (descendant) or ">"
// (direct child). A compound is a node type name or "*", optionally
// followed by attribute filters:
//
//	text
//	list list
//	blockquote > paragraph
//	heading[level=1], heading[level=2]
//	list[ordered] > list-item
package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/donaldgifford/mdlint/internal/parser"
)

// ErrSyntax is returned by Parse for malformed queries.
var ErrSyntax = errors.New("selector syntax error")

// State is the traversal position a selector is matched against.
type State interface {
	// Stack returns the nodes from the root down to the current node.
	Stack() []*parser.Node
}

// Selector is a compiled query. It is immutable and safe for concurrent use.
type Selector struct {
	query string
	alts  []chain
}

type combinator int

const (
	descendant combinator = iota
	child
)

type step struct {
	comb combinator // Relation to the previous step; unused for the first.
	comp compound
}

type chain []step

type compound struct {
	typ     string // Empty for "*".
	level   int    // Zero when unconstrained.
	ordered bool
}

// Parse compiles a query string.
func Parse(query string) (*Selector, error) {
	p := &scanner{src: query}
	sel := &Selector{query: strings.TrimSpace(query)}

	for {
		c, err := p.chain()
		if err != nil {
			return nil, err
		}
		sel.alts = append(sel.alts, c)

		p.skipSpace()
		if p.eof() {
			return sel, nil
		}
		if p.peek() != ',' {
			return nil, p.errorf("unexpected %q", p.peek())
		}
		p.pos++
	}
}

// MustParse is like Parse but panics on error. It is intended for queries
// fixed at compile time.
func MustParse(query string) *Selector {
	s, err := Parse(query)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the query the selector was compiled from.
func (s *Selector) String() string {
	return s.query
}

// Match reports whether the selector applies to the current node of state.
// On success it returns the nodes matched by each step of the first
// matching alternative, outermost first, ending with the current node. It
// returns nil when the selector does not match.
func (s *Selector) Match(state State) []*parser.Node {
	stack := state.Stack()
	if len(stack) == 0 {
		return nil
	}

	for _, c := range s.alts {
		out := make([]*parser.Node, len(c))
		if c.matchFrom(len(c)-1, len(stack)-1, stack, out) {
			return out
		}
	}
	return nil
}

func (c chain) matchFrom(ci, si int, stack, out []*parser.Node) bool {
	if !c[ci].comp.matches(stack[si]) {
		return false
	}
	out[ci] = stack[si]
	if ci == 0 {
		return true
	}

	if c[ci].comb == child {
		return si > 0 && c.matchFrom(ci-1, si-1, stack, out)
	}
	for j := si - 1; j >= 0; j-- {
		if c.matchFrom(ci-1, j, stack, out) {
			return true
		}
	}
	return false
}

func (c compound) matches(n *parser.Node) bool {
	if c.typ != "" && n.Type != c.typ {
		return false
	}
	if c.level != 0 && n.Level != c.level {
		return false
	}
	if c.ordered && !n.Ordered {
		return false
	}
	return true
}

// scanner is a hand-written recursive descent parser over the query.
type scanner struct {
	src string
	pos int
}

func (p *scanner) eof() bool  { return p.pos >= len(p.src) }
func (p *scanner) peek() byte { return p.src[p.pos] }

func (p *scanner) skipSpace() bool {
	start := p.pos
	for !p.eof() && isSpace(p.peek()) {
		p.pos++
	}
	return p.pos > start
}

func (p *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrSyntax, fmt.Sprintf(format, args...), p.pos, p.src)
}

func (p *scanner) chain() (chain, error) {
	p.skipSpace()
	first, err := p.compound()
	if err != nil {
		return nil, err
	}
	c := chain{{comp: first}}

	for {
		spaced := p.skipSpace()
		if p.eof() || p.peek() == ',' {
			return c, nil
		}

		comb := descendant
		if p.peek() == '>' {
			comb = child
			p.pos++
			p.skipSpace()
		} else if !spaced {
			return nil, p.errorf("unexpected %q", p.peek())
		}

		next, err := p.compound()
		if err != nil {
			return nil, err
		}
		c = append(c, step{comb: comb, comp: next})
	}
}

func (p *scanner) compound() (compound, error) {
	var c compound

	switch {
	case p.eof():
		return c, p.errorf("expected node type")
	case p.peek() == '*':
		p.pos++
	default:
		c.typ = p.ident()
		if c.typ == "" {
			return c, p.errorf("expected node type, found %q", p.peek())
		}
	}

	for !p.eof() && p.peek() == '[' {
		if err := p.attribute(&c); err != nil {
			return c, err
		}
	}
	return c, nil
}

func (p *scanner) attribute(c *compound) error {
	p.pos++ // [
	name := p.ident()

	switch name {
	case "ordered":
		c.ordered = true
	case "level":
		if p.eof() || p.peek() != '=' {
			return p.errorf("expected '=' after level")
		}
		p.pos++
		start := p.pos
		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			p.pos++
		}
		n, err := strconv.Atoi(p.src[start:p.pos])
		if err != nil || n == 0 {
			return p.errorf("invalid level")
		}
		c.level = n
	default:
		return p.errorf("unknown attribute %q", name)
	}

	if p.eof() || p.peek() != ']' {
		return p.errorf("expected ']'")
	}
	p.pos++
	return nil
}

func (p *scanner) ident() string {
	start := p.pos
	for !p.eof() && isIdent(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdent(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
