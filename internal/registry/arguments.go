package registry

import (
	"encoding/json"
	"fmt"
)

// ExtractArguments normalizes a tool call's arguments into a plain map.
// The SDK delivers arguments as raw JSON over the wire, but in-process
// callers and tests hand in maps, strings, or structs, so every shape is
// accepted:
//
//   - nil: empty map
//   - map[string]any: returned as-is
//   - json.RawMessage, []byte, string: decoded as a JSON object
//   - anything else: round-tripped through JSON
func ExtractArguments(arguments any) (map[string]any, error) {
	if arguments == nil {
		return map[string]any{}, nil
	}

	switch args := arguments.(type) {
	case map[string]any:
		return args, nil
	case json.RawMessage:
		return decodeArguments([]byte(args))
	case []byte:
		return decodeArguments(args)
	case string:
		return decodeArguments([]byte(args))
	default:
		data, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal arguments to JSON: %w", err)
		}
		return decodeArguments(data)
	}
}

func decodeArguments(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse arguments JSON: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
