package config

import "sort"

var Presets = map[string]map[string]*Config{
	"exp_growth": {
		"unit": {
			Problem: "exp_growth", T0: 0, Tmax: 1, Y0: 1, H: 0.1, Endpoint: "clamp",
		},
		"long": {
			Problem: "exp_growth", T0: 0, Tmax: 3, Y0: 1, H: 1e-4, Endpoint: "clamp",
		},
		"fixed": {
			Problem: "exp_growth", T0: 0, Tmax: 1, Y0: 1, H: 0.1, Endpoint: "fixed",
		},
	},
	"exp_decay": {
		"half": {
			Problem: "exp_decay", T0: 0, Tmax: 0.5, Y0: 1, H: 0.1, Endpoint: "clamp",
		},
		"long": {
			Problem: "exp_decay", T0: 0, Tmax: 10, Y0: 1, H: 0.01, Endpoint: "clamp",
		},
	},
	"stiff_decay": {
		"fine": {
			Problem: "stiff_decay", T0: 0, Tmax: 1, Y0: 1, H: 1e-4, Endpoint: "clamp",
		},
		"unstable": {
			Problem: "stiff_decay", T0: 0, Tmax: 1, Y0: 1, H: 0.2, Endpoint: "fixed",
		},
	},
	"logistic": {
		"saturate": {
			Problem: "logistic", T0: 0, Tmax: 20, Y0: 0.01, H: 0.1, Endpoint: "clamp",
		},
	},
	"cosine": {
		"period": {
			Problem: "cosine", T0: 0, Tmax: 6.283185307179586, Y0: 0, H: 0.01, Endpoint: "clamp",
		},
	},
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(problem, preset string) *Config {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	cfg, ok := problemPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

// ListPresets returns the sorted preset names for a problem, or nil.
func ListPresets(problem string) []string {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(problemPresets))
	for name := range problemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
