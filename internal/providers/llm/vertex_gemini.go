package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	vertexgenai "cloud.google.com/go/vertexai/genai"
)

type VertexGemini struct {
	client  *vertexgenai.Client
	model   string
	timeout time.Duration
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &VertexGemini{client: c, model: modelName, timeout: 30 * time.Second}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) GenerateJSON(ctx context.Context, prompt string, schema *Schema) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	m := v.client.GenerativeModel(v.model)
	m.ResponseMIMEType = "application/json"
	if schema != nil {
		m.ResponseSchema = toVertexSchema(schema)
	}

	resp, err := m.GenerateContent(callCtx, vertexgenai.Text(prompt))
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return nil, errors.New("empty generation response")
	}
	return []byte(out), nil
}

func toVertexSchema(s *Schema) *vertexgenai.Schema {
	if s == nil {
		return nil
	}

	out := &vertexgenai.Schema{
		Type:        toVertexType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Items:       toVertexSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*vertexgenai.Schema, len(s.Properties))
		for k, p := range s.Properties {
			out.Properties[k] = toVertexSchema(p)
		}
	}
	return out
}

func toVertexType(t string) vertexgenai.Type {
	switch t {
	case "object":
		return vertexgenai.TypeObject
	case "array":
		return vertexgenai.TypeArray
	case "string":
		return vertexgenai.TypeString
	case "number":
		return vertexgenai.TypeNumber
	case "integer":
		return vertexgenai.TypeInteger
	case "boolean":
		return vertexgenai.TypeBoolean
	default:
		return vertexgenai.TypeUnspecified
	}
}
