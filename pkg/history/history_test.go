package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, limit int) *Store {
	t.Helper()
	s, err := Open(":memory:", limit)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndList(t *testing.T) {
	s := openStore(t, 0)
	_, err := s.Add("A = (1, 2)", Typed, 1, 0)
	require.NoError(t, err)
	e, err := s.Add("Segment[(0, 0), (1, 1)]\n", SVG, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Segment[(0, 0), (1, 1)]", e.Commands)

	entries, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, SVG, entries[0].Source)
	assert.Equal(t, "A = (1, 2)", entries[1].Commands)

	entries, err = s.List(1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAddRejectsEmpty(t *testing.T) {
	s := openStore(t, 0)
	_, err := s.Add("   ", Typed, 0, 0)
	assert.Error(t, err)
}

func TestLimitTrimsOldest(t *testing.T) {
	s := openStore(t, 2)
	for _, c := range []string{"a", "b", "c"} {
		_, err := s.Add(c, Typed, 1, 0)
		require.NoError(t, err)
	}
	out, err := s.Export()
	require.NoError(t, err)
	assert.Equal(t, "b\nc", out)
}

func TestClear(t *testing.T) {
	s := openStore(t, 0)
	s.Add("a", Typed, 1, 0)
	s.Add("b", Typed, 1, 0)
	n, err := s.Clear()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	entries, err := s.List(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAge(t *testing.T) {
	s := openStore(t, 0)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_, err := s.Add("y = x", Typed, 1, 0)
	require.NoError(t, err)
	entries, err := s.List(1)
	require.NoError(t, err)
	assert.Equal(t, "2 hours ago", entries[0].Age())
}
