package parser

import (
	"cmp"
	"sort"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// md is shared by all parses; goldmark parsers are safe for concurrent use.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse converts markdown source text into a node tree rooted at a
// document node.
func Parse(src string) *Node {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	p := &state{source: source, lineStarts: lineStarts(source)}
	return p.convert(doc, 0)
}

// state carries the source buffer across the recursive conversion.
type state struct {
	source     []byte
	lineStarts []int
}

// convert builds the node for n. Nodes without a position of their own
// (empty links, images) fall back to inherited, the line of the nearest
// positioned ancestor.
func (p *state) convert(n ast.Node, inherited int) *Node {
	node := &Node{
		Type:  KindName(n.Kind()),
		Block: n.Type() == ast.TypeBlock,
		Line:  p.lineOf(n),
	}

	switch v := n.(type) {
	case *ast.Text:
		node.Literal = string(v.Segment.Value(p.source))
		if v.SoftLineBreak() || v.HardLineBreak() {
			node.Literal += "\n"
		}
	case *ast.String:
		node.Literal = string(v.Value)
	case *ast.Heading:
		node.Level = v.Level
	case *ast.Emphasis:
		node.Level = v.Level
	case *ast.List:
		node.Ordered = v.IsOrdered()
	case *ast.AutoLink:
		node.Literal = string(v.Label(p.source))
	case *ast.RawHTML:
		node.Literal = p.segments(v.Segments)
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
		node.Literal = strings.TrimSuffix(p.segments(n.Lines()), "\n")
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		child := p.convert(c, cmp.Or(node.Line, inherited))
		if node.Line == 0 {
			node.Line = child.Line
		}
		// goldmark splits runs of text at delimiters it tried and rejected;
		// adjacent pieces become one text node.
		if prev := lastChild(node); prev != nil && isText(c) && isText(c.PreviousSibling()) {
			prev.Literal += child.Literal
			prev.render()
			continue
		}
		node.Children = append(node.Children, child)
	}

	if node.Line == 0 {
		node.Line = inherited
	}

	node.render()
	return node
}

func lastChild(n *Node) *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

func isText(n ast.Node) bool {
	_, ok := n.(*ast.Text)
	return ok
}

func (p *state) segments(segs *text.Segments) string {
	var b strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(p.source))
	}
	return b.String()
}

// lineOf returns the 1-indexed line of the node's first source byte, or 0
// when the node carries no position of its own (containers, documents).
func (p *state) lineOf(n ast.Node) int {
	switch v := n.(type) {
	case *ast.Text:
		return p.line(v.Segment.Start)
	case *ast.RawHTML:
		if v.Segments.Len() > 0 {
			return p.line(v.Segments.At(0).Start)
		}
	}

	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			return p.line(lines.At(0).Start)
		}
	}
	return 0
}

func (p *state) line(offset int) int {
	return sort.SearchInts(p.lineStarts, offset+1)
}

// lineStarts returns the byte offset at which every line begins.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// KindName converts a goldmark node kind ("FencedCodeBlock") to the
// kebab-case type name used by selectors ("fenced-code-block").
func KindName(k ast.NodeKind) string {
	name := []rune(k.String())

	var b strings.Builder
	for i, r := range name {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		// Break before a capital that starts a word: after a lowercase
		// letter ("AutoLink") or at the end of an acronym ("HTMLBlock").
		if i > 0 && (!unicode.IsUpper(name[i-1]) ||
			(i+1 < len(name) && unicode.IsLower(name[i+1]))) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
