package llm

import "context"

// Schema describes the JSON shape a generation must conform to. It is
// provider-neutral so services and tests do not depend on a concrete SDK;
// implementations translate it to their native schema type.
type Schema struct {
	Type        string // "object" | "array" | "string" | "number" | "integer"
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Required    []string
}

type Provider interface {
	// GenerateJSON runs one generation constrained to the given schema and
	// returns the raw conforming JSON payload. A response the provider
	// cannot shape to the schema is an error, never a partial success.
	GenerateJSON(ctx context.Context, prompt string, schema *Schema) ([]byte, error)
	Close() error
}
