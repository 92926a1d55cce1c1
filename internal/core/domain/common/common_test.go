package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	assert := require.New(t)

	optionalInt := NewOptional(42, true)
	assert.Equal(42, optionalInt.Value)
	assert.True(optionalInt.IsPresent)
	assert.Equal(42, optionalInt.ValueOr(7))

	optionalString := NewOptional("foo", false)
	assert.Equal("foo", optionalString.Value)
	assert.False(optionalString.IsPresent)
	assert.Equal("bar", optionalString.ValueOr("bar"))
}

func TestOptionalPointerConversion(t *testing.T) {
	assert := require.New(t)

	assert.False(FromPointer[string](nil).IsPresent)
	assert.Nil(NewOptional("", false).Pointer())

	value := "conversation-1"
	optional := FromPointer(&value)
	assert.True(optional.IsPresent)
	assert.Equal("conversation-1", optional.Value)

	ptr := optional.Pointer()
	assert.NotNil(ptr)
	assert.Equal(value, *ptr)
	*ptr = "changed"
	assert.Equal("conversation-1", optional.Value)
}
