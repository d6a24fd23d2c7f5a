package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_RejectsAfterCapacityExhausted(t *testing.T) {
	c := New(2)

	assert.True(t, c.Allow("alice"))
	assert.True(t, c.Allow("alice"))
	assert.False(t, c.Allow("alice"))
}

func TestAllow_SeparateIdentitiesDoNotContend(t *testing.T) {
	c := New(1)

	assert.True(t, c.Allow("alice"))
	assert.False(t, c.Allow("alice"))
	assert.True(t, c.Allow("bob"))
}
