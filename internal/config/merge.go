package config

import "fmt"

// Merge combines two configs where overlay takes precedence over base:
//   - version: must agree if both declare it (non-zero)
//   - scalar fields: a non-empty overlay value wins
//   - markers.tokens: a non-empty overlay list replaces the base list
//   - flavor_definitions: merge by name, same name in overlay replaces base
func Merge(base, overlay *Config) (*Config, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}

	result := &Config{}
	if err := mergeVersion(base.Version, overlay.Version, &result.Version); err != nil {
		return nil, err
	}

	result.Flavor = pick(base.Flavor, overlay.Flavor)
	result.ConfigDir = pick(base.ConfigDir, overlay.ConfigDir)
	result.TemplatesDir = pick(base.TemplatesDir, overlay.TemplatesDir)

	result.Strict = base.Strict
	if overlay.Strict != nil {
		result.Strict = overlay.Strict
	}

	result.Markers.Mode = pick(base.Markers.Mode, overlay.Markers.Mode)
	result.Markers.Tokens = base.Markers.Tokens
	if len(overlay.Markers.Tokens) > 0 {
		result.Markers.Tokens = overlay.Markers.Tokens
	}

	result.Starter = base.Starter
	if overlay.Starter.Repo != "" {
		// Ref belongs to the repo it was written for.
		result.Starter = overlay.Starter
	} else if overlay.Starter.Ref != "" {
		result.Starter.Ref = overlay.Starter.Ref
	}

	result.FlavorDefinitions = mergeFlavorDefs(base.FlavorDefinitions, overlay.FlavorDefinitions)
	return result, nil
}

// MergeAll merges multiple configs in order (lowest precedence first).
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		var err error
		result, err = Merge(result, configs[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeVersion(base, overlay int, out *int) error {
	switch {
	case base == 0:
		*out = overlay
	case overlay == 0, base == overlay:
		*out = base
	default:
		return fmt.Errorf("config version mismatch: one layer declares version %d, another declares version %d (all config layers must agree on version)", base, overlay)
	}
	return nil
}

func pick(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func mergeFlavorDefs(base, overlay []FlavorDefinition) []FlavorDefinition {
	if len(base) == 0 {
		return overlay
	}
	if len(overlay) == 0 {
		return base
	}

	overlayNames := make(map[string]bool, len(overlay))
	for _, fd := range overlay {
		overlayNames[fd.Name] = true
	}

	var result []FlavorDefinition
	for _, fd := range base {
		if !overlayNames[fd.Name] {
			result = append(result, fd)
		}
	}
	return append(result, overlay...)
}
