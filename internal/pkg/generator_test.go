package pkg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomCode(t *testing.T) {
	// When: generating a room code
	code, err := GenerateRoomCode()

	// Then: it is 6 uppercase base36 characters
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.Contains(t, roomCodeAlphabet, string(r))
	}
	assert.Equal(t, strings.ToUpper(code), code)
}
