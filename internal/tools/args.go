package tools

import (
	"fmt"
	"math"
)

// Coercion helpers over the decoded argument map. JSON numbers arrive as
// float64; the int cases fold in values from maps built directly in Go.

func floatArg(args map[string]any, key string, def float64) (float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("parameter %q must be a number", key)
	}
}

func intArg(args map[string]any, key string, def int) (int, error) {
	f, err := floatArg(args, key, float64(def))
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

func stringArg(args map[string]any, key, def string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string", key)
	}
	return s, nil
}

func boolArg(args map[string]any, key string, def bool) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("parameter %q must be a boolean", key)
	}
	return b, nil
}

func requireString(args map[string]any, key string) (string, error) {
	s, err := stringArg(args, key, "")
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("missing required parameter %q", key)
	}
	return s, nil
}

// requireFloat insists the key is present; zero is a legal value.
func requireFloat(args map[string]any, key string) (float64, error) {
	if v, ok := args[key]; !ok || v == nil {
		return 0, fmt.Errorf("missing required parameter %q", key)
	}
	return floatArg(args, key, 0)
}

func stringListArg(args map[string]any, key string, def []string) ([]string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %q must be an array of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parameter %q must be an array of strings", key)
	}
}
