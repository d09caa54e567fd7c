package config

// Defaults returns the default configuration values keyed by koanf path.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"quality.min_angle":      0.0,
		"quality.max_angle":      0.0,
		"quality.max_area":       0.0,
		"quality.variable_area":  false,
		"quality.steiner_points": 0, // unbounded
		"quality.legacy":         false,
		"db_path":                "meshq.db",
		"workers":                4,
		"only_bad":               false,
	}
}
