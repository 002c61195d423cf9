package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLitePresetFavorsLatency(t *testing.T) {
	p := LitePreset()
	require.Equal(t, "lite", p.Name)
	require.True(t, p.NoSync)
	require.Less(t, p.BatchSize, DurablePreset().BatchSize)

	d, err := time.ParseDuration(p.BatchInterval)
	require.NoError(t, err)
	require.Less(t, d, 1*time.Second)
}

func TestDurablePresetFavorsDurability(t *testing.T) {
	p := DurablePreset()
	require.Equal(t, "durable", p.Name)
	require.False(t, p.NoSync)

	d, err := time.ParseDuration(p.BatchInterval)
	require.NoError(t, err)
	require.GreaterOrEqual(t, d, 1*time.Second)
}

func TestGetPresetByNameDefaultsToLite(t *testing.T) {
	p, err := GetPresetByName("")
	require.NoError(t, err)
	require.Equal(t, LitePreset(), p)
}

func TestGetPresetByNameRejectsUnknown(t *testing.T) {
	_, err := GetPresetByName("archive")
	require.Error(t, err)
}
