package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	o, err := New("Ada Lovelace", "ada@example.com", "laptop", 1, 0.01)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Zero(t, o.ID)
	assert.Equal(t, o.CreatedAt, o.UpdatedAt)
	assert.False(t, o.CreatedAt.IsZero())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("Ada", "ada@example.com", "laptop", 0, 10)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = New("Ada", "ada@example.com", "laptop", 1, 0)
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestParseStatus(t *testing.T) {
	for raw, want := range map[string]Status{
		"pending":   StatusPending,
		"confirmed": StatusConfirmed,
		"failed":    StatusFailed,
		"  FAILED ": StatusFailed,
	} {
		got, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseStatus("shipped")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestClone(t *testing.T) {
	o, err := New("Ada", "ada@example.com", "laptop", 1, 9.99)
	require.NoError(t, err)
	o.ID = 5

	clone := o.Clone()
	clone.Status = StatusFailed

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, int64(5), clone.ID)
}
