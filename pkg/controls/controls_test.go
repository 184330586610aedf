package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/controls/pkg/tree"
)

func TestStockKinds(t *testing.T) {
	cases := []struct {
		node  *tree.Node
		kind  string
		model tree.ContentModel
	}{
		{NewControl(), KindControl, tree.NoChildren},
		{NewDecorator(), KindDecorator, tree.SingleChild},
		{NewBorder(), KindBorder, tree.SingleChild},
		{NewContentControl(), KindContentControl, tree.SingleChild},
		{NewPanel(), KindPanel, tree.ManyChildren},
		{NewStackPanel(), KindStackPanel, tree.ManyChildren},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.kind, tc.node.Kind())
		assert.Equal(t, tc.model, tc.node.ContentModel(), tc.kind)
		assert.False(t, tc.node.IsAttached())
		assert.Equal(t, 0, tc.node.Classes().Len(), "classes should initially be empty")
	}
}

func TestRegisterCustomKind(t *testing.T) {
	Register("Grid", tree.ManyChildren)

	n, ok := New("Grid")
	require.True(t, ok)
	assert.Equal(t, tree.ManyChildren, n.ContentModel())
	assert.Contains(t, Kinds(), "Grid")

	_, ok = New("NoSuchKind")
	assert.False(t, ok)
}

func TestNamed(t *testing.T) {
	n := Named(KindBorder, "outer")
	assert.Equal(t, "outer", n.Name())
	assert.Equal(t, "Border#outer", n.String())
}
