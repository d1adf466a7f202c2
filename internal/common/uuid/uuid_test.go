package uuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewString(t *testing.T) {
	a := NewString()
	b := NewString()
	assert.NotEqual(t, a, b)
	assert.True(t, IsUUIDv7(a))
	assert.True(t, IsUUIDv7(b))
	assert.False(t, IsUUIDv7("not-a-uuid"))
	assert.False(t, IsUUIDv7("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
}
