package store_test

import (
	"testing"

	"github.com/serroba/timequota/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScriptReply(t *testing.T) {
	t.Run("decodes consumed replies", func(t *testing.T) {
		count, consumed, err := store.ParseScriptReply([]any{int64(3), int64(1)})

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.True(t, consumed)
	})

	t.Run("decodes capped replies", func(t *testing.T) {
		count, consumed, err := store.ParseScriptReply([]any{int64(10), int64(0)})

		require.NoError(t, err)
		assert.Equal(t, int64(10), count)
		assert.False(t, consumed)
	})

	tests := []struct {
		name  string
		reply any
	}{
		{name: "not a list", reply: "OK"},
		{name: "wrong length", reply: []any{int64(1)}},
		{name: "non-integer count", reply: []any{"1", int64(1)}},
		{name: "non-integer flag", reply: []any{int64(1), "1"}},
		{name: "missing flag", reply: []any{int64(1), nil}},
	}

	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			count, consumed, err := store.ParseScriptReply(tt.reply)

			require.ErrorIs(t, err, store.ErrUnexpectedScriptReply)
			assert.Zero(t, count)
			assert.False(t, consumed)
		})
	}
}
