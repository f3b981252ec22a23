package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseOrderDate(t *testing.T) {
	got, err := parseOrderDate("")
	require.NoError(t, err)
	require.True(t, got.IsZero())

	got, err = parseOrderDate("2025-03-10")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), got)

	got, err = parseOrderDate("2025-03-10T12:30:00Z")
	require.NoError(t, err)
	require.Equal(t, 12, got.Hour())

	_, err = parseOrderDate("10/03/2025")
	require.Error(t, err)
}
