package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := NewContext(context.Background(), 42)

	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	id, err := MustFromContext(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestMissingScope(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	_, err := MustFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoScope)
}

func TestScopesDoNotLeakAcrossContexts(t *testing.T) {
	a := NewContext(context.Background(), 1)
	b := NewContext(context.Background(), 2)

	idA, _ := FromContext(a)
	idB, _ := FromContext(b)
	assert.Equal(t, uint(1), idA)
	assert.Equal(t, uint(2), idB)

	// Deriving a child context keeps the parent's scope
	child := NewContext(a, 3)
	idChild, _ := FromContext(child)
	assert.Equal(t, uint(3), idChild)
	idA, _ = FromContext(a)
	assert.Equal(t, uint(1), idA)
}
