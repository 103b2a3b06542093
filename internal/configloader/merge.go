package configloader

import "github.com/yaklabco/gomdview/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if non-nil, so false can be set
//   - Nil/unset values in override do not override values in base
//
// Booleans that are plain bools (CLI-only) can only be switched on.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Style != "" {
		result.Style = override.Style
	}
	if override.DetectLanguage != nil {
		detect := *override.DetectLanguage
		result.DetectLanguage = &detect
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Separator != "" {
		result.Separator = override.Separator
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}

	if override.Stream.ChunkSize != 0 {
		result.Stream.ChunkSize = override.Stream.ChunkSize
	}
	if override.Stream.Delay != "" {
		result.Stream.Delay = override.Stream.Delay
	}

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Select != "" {
		result.Select = override.Select
	}
	if override.Plain {
		result.Plain = true
	}
	if override.Copy {
		result.Copy = true
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
