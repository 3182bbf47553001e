package qcrbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	t.Run("terminal statuses", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"successful", "failed", "warning"} {
			status, err := ParseStatus(s)
			require.NoError(t, err)
			assert.Equal(t, Status(s), status)
			assert.True(t, status.IsValid())
		}
	})

	t.Run("non-terminal status rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ParseStatus("running")
		require.Error(t, err)
		assert.False(t, Status("running").IsValid())
	})

	t.Run("empty status rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ParseStatus("")
		require.Error(t, err)
	})
}
