package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoom_IsAvailable(t *testing.T) {
	assert.True(t, (&Room{Available: true}).IsAvailable())
	assert.False(t, (&Room{Available: false}).IsAvailable())
}
