package walker

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/mdlint/internal/parser"
)

func typesOf(nodes []*parser.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.Type
	}
	return strings.Join(parts, " ")
}

func TestWalkOrderAndState(t *testing.T) {
	doc := parser.Parse("# Title\n\n- item\n")

	var visits []string
	err := Walk(doc, func(node *parser.Node, state *State, content string) error {
		assert.Same(t, node, state.Node())
		assert.Equal(t, node.Content(), content)
		visits = append(visits, typesOf(state.Stack()))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"document",
		"document heading",
		"document heading text",
		"document list",
		"document list list-item",
		"document list list-item text-block",
		"document list list-item text-block text",
	}, visits)
}

func TestWalkParentAndDepth(t *testing.T) {
	doc := parser.Parse("para\n")

	err := Walk(doc, func(node *parser.Node, state *State, _ string) error {
		switch node.Type {
		case parser.TypeDocument:
			assert.Nil(t, state.Parent())
			assert.Equal(t, 0, state.Depth())
		case parser.TypeText:
			assert.Equal(t, parser.TypeParagraph, state.Parent().Type)
			assert.Equal(t, 2, state.Depth())
		}
		return nil
	})
	require.NoError(t, err)
}

func TestWalkStopsOnError(t *testing.T) {
	doc := parser.Parse("one\n\ntwo\n")
	stop := errors.New("stop")

	count := 0
	err := Walk(doc, func(node *parser.Node, _ *State, _ string) error {
		count++
		if node.Type == parser.TypeParagraph {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, count)
}

func TestWalkNil(t *testing.T) {
	assert.NoError(t, Walk(nil, func(*parser.Node, *State, string) error {
		t.Fatal("visitor called for nil root")
		return nil
	}))
}

func TestNewState(t *testing.T) {
	doc := &parser.Node{Type: parser.TypeDocument}
	text := &parser.Node{Type: parser.TypeText}

	s := NewState(doc, text)
	assert.Same(t, text, s.Node())
	assert.Same(t, doc, s.Parent())
	assert.Equal(t, 1, s.Depth())

	empty := NewState()
	assert.Nil(t, empty.Node())
	assert.Equal(t, 0, empty.Depth())
}
