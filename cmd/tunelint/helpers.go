package main

import "tunelint/internal/config"

// loadLimits returns the defaults when no config path is given.
func loadLimits(path string) (config.Limits, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFromPath(path)
}
