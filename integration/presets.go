// Package integration provides configuration presets for the node runtime.
// Presets bundle the two knobs that actually vary by deployment — ledger
// flush durability and batcher aggressiveness — into named profiles so
// operators don't need to tune batch_size/batch_interval/fsync by hand.
//
// Usage:
//
//	preset, err := integration.GetPresetByName("durable")
//	cfg.BatchSize = preset.BatchSize
package integration

import "fmt"

// PresetConfig captures the ledger/batcher tuning that varies by preset.
type PresetConfig struct {
	Name          string // human-readable identifier ("lite", "durable")
	BatchSize     int    // max votes per appended block
	BatchInterval string // max wait before a partial batch flushes, as a time.ParseDuration string
	NoSync        bool   // bbolt NoSync: skip fsync on every commit
}

// LitePreset favors low latency over durability: small batches, frequent
// flushes, and no fsync. Suitable for local development, where losing the
// last few seconds of votes on a crash is an acceptable trade for speed.
func LitePreset() PresetConfig {
	return PresetConfig{
		Name:          "lite",
		BatchSize:     8,
		BatchInterval: "250ms",
		NoSync:        true,
	}
}

// DurablePreset favors durability over latency: larger batches (more votes
// amortize one fsync), a longer flush interval, and fsync-on-commit enabled.
func DurablePreset() PresetConfig {
	return PresetConfig{
		Name:          "durable",
		BatchSize:     256,
		BatchInterval: "2s",
		NoSync:        false,
	}
}

// GetPresetByName looks up a preset by its CLI-facing name.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "lite", "":
		return LitePreset(), nil
	case "durable":
		return DurablePreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("integration: unknown preset %q (valid: lite, durable)", name)
	}
}
