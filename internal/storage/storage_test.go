package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStoreRoundTrip(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	n, err := s.Put(ctx, "report.pdf", strings.NewReader("contents"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	rc, err := s.Open(ctx, "report.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "contents", string(data))

	require.NoError(t, s.Delete(ctx, "report.pdf"))
	_, err = s.Open(ctx, "report.pdf")
	assert.Error(t, err)
}

func TestDirStoreDeleteMissing(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Delete(context.Background(), "nope.bin"))
}

func TestDirStoreRejectsBadKeys(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../escape", "a/b", ".hidden", "..", "/abs"} {
		t.Run(key, func(t *testing.T) {
			_, err := s.Put(ctx, key, strings.NewReader("x"))
			assert.Error(t, err)
			assert.Error(t, s.Delete(ctx, key))
		})
	}
}
