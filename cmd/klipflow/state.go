package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// loadState reads the initial workflow state from a JSON, YAML, or TOML
// file. An empty path yields an empty state.
func loadState(path string) (map[string]any, error) {
	state := make(map[string]any)
	if path == "" {
		return state, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = sonic.Unmarshal(data, &state)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &state)
	case ".toml":
		err = toml.Unmarshal(data, &state)
	default:
		return nil, fmt.Errorf("unsupported state format %q (want .json, .yaml, or .toml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return state, nil
}

// applyOverrides merges key=value pairs into state. Integers, floats,
// and booleans keep their type; everything else stays a string.
func applyOverrides(state map[string]any, pairs []string) error {
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return fmt.Errorf("invalid --set %q (want key=value)", pair)
		}
		state[key] = coerce(value)
	}
	return nil
}

func coerce(value string) any {
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}
