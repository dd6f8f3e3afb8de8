package integration

import "fmt"

// Package integration provides reader presets for the bra command line tool.
// Presets bundle the knobs of a GreedyAccessReader session (initial capacity,
// streaming chunk size, compaction threshold) into named profiles so a user
// can pick a memory/throughput trade-off without spelling out every flag.
//
// Usage:
//   cfg := integration.SmallPreset()   // short inputs, peeking at headers
//   cfg := integration.StreamPreset()  // long pipes copied through cat
//   cfg := integration.ArchivePreset() // large inputs kept for random access
//
// Each preset returns a PresetConfig struct that the launcher merges into
// its main config before CLI overrides are applied.

// PresetConfig captures the tunable parameters that vary across preset profiles.
type PresetConfig struct {
	Name         string // human-readable identifier (e.g., "small", "stream")
	Capacity     int    // initial buffer capacity handed to bra.NewSize
	ChunkSize    int    // largest chunk the cat command writes per step
	CompactAfter int    // consumed bytes after which cat calls Clear; 0 keeps everything
}

func DefaultPreset() PresetConfig {

	return PresetConfig{
		Name:         "default",
		Capacity:     0,    // start empty, the reader grows from 16 bytes by doubling
		ChunkSize:    4096, // one page per write
		CompactAfter: 0,    // greedy: every byte stays addressable
	}
}

// SmallPreset keeps the footprint minimal for short inputs, e.g. sniffing
// a magic number at the start of a stream.
func SmallPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "small"
	cfg.ChunkSize = 512
	return cfg
}

// StreamPreset is meant for long or endless pipes copied through cat.
// Consumed history is dropped regularly so memory stays bounded by the
// compaction threshold plus one fill.
func StreamPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "stream"
	cfg.Capacity = 64 * 1024
	cfg.ChunkSize = 32 * 1024
	cfg.CompactAfter = 1024 * 1024
	return cfg
}

// ArchivePreset reserves a large buffer up front for inputs that will be
// accessed randomly all over.
func ArchivePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "archive"
	cfg.Capacity = 1024 * 1024
	cfg.ChunkSize = 64 * 1024
	cfg.CompactAfter = 0
	return cfg
}

// GetPresetByName looks up a preset by its string identifier and returns the
// corresponding PresetConfig. Returns an error if the name is unrecognized.
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "small":
		return SmallPreset(), nil
	case "stream":
		return StreamPreset(), nil
	case "archive":
		return ArchivePreset(), nil
	case "default", "":
		return DefaultPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: default, small, stream, archive)", name)
	}
}

// ApplyPreset merges a preset configuration into an existing one.
// Sizes are only taken when positive; the compaction threshold is always
// applied since zero is a meaningful value for it.
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.Capacity > 0 {
		target.Capacity = preset.Capacity
	}
	if preset.ChunkSize > 0 {
		target.ChunkSize = preset.ChunkSize
	}
	target.CompactAfter = preset.CompactAfter
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
