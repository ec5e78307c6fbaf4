package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := NewSet("a", "b", "a")
	require.Equal(t, 2, s.Len())
	require.True(t, s.Has("a"))
	require.False(t, s.Has("c"))

	require.True(t, s.Add("c"))
	require.False(t, s.Add("c"))
	require.True(t, s.Has("c"))

	require.True(t, s.Remove("a"))
	require.False(t, s.Remove("a"))
	require.False(t, s.Has("a"))
	require.Equal(t, 2, s.Len())
}
