package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelTotals_Add(t *testing.T) {
	totals := ChannelTotals{}
	totals.Add("a", Duration(100))
	totals.Add("a", Duration(50))
	totals.Add("b", Duration(0))
	totals.Add("a", Skipped(SkipLive))
	totals.Add("c", Skipped(SkipFailed))

	assert.Equal(t, ChannelTotals{"a": 150, "b": 0}, totals)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, DurationResult{Seconds: 42}, Duration(42))
	assert.Equal(t, DurationResult{}, Duration(-1))
	assert.Equal(t, DurationResult{Skip: true, Reason: SkipLive}, Skipped(SkipLive))
}
