package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agencypulse/agencypulse/internal/timeframe"
)

func mustRange(t *testing.T, start, end string) *timeframe.Range {
	t.Helper()
	s, ok := timeframe.ParseDate(start)
	require.True(t, ok, start)
	e, ok := timeframe.ParseDate(end)
	require.True(t, ok, end)
	return &timeframe.Range{Start: timeframe.StartOfDay(s), End: timeframe.EndOfDay(e)}
}
