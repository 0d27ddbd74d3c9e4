package tools

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema constructors for tool inputs. Every tool takes a flat object of
// scalar parameters, so a few small builders cover the whole surface.

func objectSchema(props map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func stringProp(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func stringPropDefault(desc, def string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: desc,
		Default:     json.RawMessage(strconv.Quote(def)),
	}
}

// enumProp builds a string property restricted to values. An empty def
// means the parameter is required and advertises no default.
func enumProp(desc, def string, values ...string) *jsonschema.Schema {
	s := stringProp(desc)
	if def != "" {
		s.Default = json.RawMessage(strconv.Quote(def))
	}
	s.Enum = make([]any, 0, len(values))
	for _, v := range values {
		s.Enum = append(s.Enum, v)
	}
	return s
}

func numberProp(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number", Description: desc}
}

func numberPropDefault(desc string, def float64) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "number",
		Description: desc,
		Default:     json.RawMessage(strconv.FormatFloat(def, 'f', -1, 64)),
	}
}

func intPropDefault(desc string, def int) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "integer",
		Description: desc,
		Default:     json.RawMessage(strconv.Itoa(def)),
	}
}

func boolPropDefault(desc string, def bool) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "boolean",
		Description: desc,
		Default:     json.RawMessage(strconv.FormatBool(def)),
	}
}

func stringListPropDefault(desc string, def ...string) *jsonschema.Schema {
	data, err := json.Marshal(def)
	if err != nil {
		panic(fmt.Sprintf("marshal default list: %v", err))
	}
	return &jsonschema.Schema{
		Type:        "array",
		Description: desc,
		Items:       &jsonschema.Schema{Type: "string"},
		Default:     json.RawMessage(data),
	}
}
