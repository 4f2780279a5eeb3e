// Package parser converts markdown source into a lightweight node tree.
package parser

import "strings"

// Node types produced by the parser. Names are the kebab-case form of the
// goldmark node kind, so extension nodes follow the same scheme
// (e.g. "table-cell", "strikethrough").
const (
	TypeDocument        = "document"
	TypeParagraph       = "paragraph"
	TypeTextBlock       = "text-block"
	TypeHeading         = "heading"
	TypeList            = "list"
	TypeListItem        = "list-item"
	TypeBlockquote      = "blockquote"
	TypeCodeBlock       = "code-block"
	TypeFencedCodeBlock = "fenced-code-block"
	TypeHTMLBlock       = "html-block"
	TypeThematicBreak   = "thematic-break"
	TypeText            = "text"
	TypeString          = "string"
	TypeCodeSpan        = "code-span"
	TypeEmphasis        = "emphasis"
	TypeLink            = "link"
	TypeImage           = "image"
	TypeAutoLink        = "auto-link"
	TypeRawHTML         = "raw-html"
)

// Node is a single element of a parsed markdown document.
type Node struct {
	Type     string
	Line     int    // 1-indexed source line of the node's first byte.
	Level    int    // Heading level, or emphasis level; zero otherwise.
	Ordered  bool   // Ordered list.
	Block    bool   // Block-level node (paragraph, list, ...).
	Literal  string // Own text of leaf nodes (text, code, html, URLs).
	Children []*Node

	content string
	lines   []int // Source line of each content line.
}

// Content returns the rendered plain text of the node and its descendants.
// Block children are separated by a newline.
func (n *Node) Content() string {
	if n == nil {
		return ""
	}
	return n.content
}

// SourceLine returns the source line holding the rune at offset within
// the node's content. Offsets outside the content are clamped, and lines
// the parser could not place fall back to the node's own line.
func (n *Node) SourceLine(offset int) int {
	if n == nil {
		return 0
	}

	idx := 0
	for i, r := range []rune(n.content) {
		if i >= offset {
			break
		}
		if r == '\n' {
			idx++
		}
	}
	if idx < len(n.lines) && n.lines[idx] > 0 {
		return n.lines[idx]
	}
	return n.Line
}

// render computes the cached content once children are attached, along
// with the source line of every content line.
func (n *Node) render() {
	var b strings.Builder
	lines := []int{n.Line}
	next := func() {
		lines = append(lines, lines[len(lines)-1]+1)
	}

	b.WriteString(n.Literal)
	for range strings.Count(n.Literal, "\n") {
		next()
	}

	prevBlock := false
	for i, c := range n.Children {
		if i > 0 && (c.Block || prevBlock) && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
			next()
		}
		// A child starting a fresh content line places that line.
		if (b.Len() == 0 || strings.HasSuffix(b.String(), "\n")) && len(c.lines) > 0 && c.lines[0] > 0 {
			lines[len(lines)-1] = c.lines[0]
		}
		if len(c.lines) > 1 {
			lines = append(lines, c.lines[1:]...)
		}
		b.WriteString(c.content)
		prevBlock = c.Block
	}

	n.content = b.String()
	n.lines = lines
}

// Walk calls fn for n and every descendant in depth-first pre-order.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns every node in the tree rooted at n with the given type.
func (n *Node) Find(typ string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Type == typ {
			out = append(out, c)
		}
		return true
	})
	return out
}
