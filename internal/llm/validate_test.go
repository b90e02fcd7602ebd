package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func nightSchema() *Schema {
	return &Schema{
		Name:        "test-night",
		Description: "A scored night",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"headline": map[string]any{"type": "string", "maxLength": 20},
				"cycles":   map[string]any{"type": "integer", "minimum": 0},
				"rating":   map[string]any{"type": "string", "enum": []any{"poor", "okay", "good"}},
			},
			"required": []any{"headline", "cycles"},
		},
	}
}

func TestSchemaCheck(t *testing.T) {
	schema := nightSchema()
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"headline":"Solid night","cycles":5,"rating":"good"}`, false},
		{"optional omitted", `{"headline":"Short night","cycles":2}`, false},
		{"missing required", `{"headline":"No cycles"}`, true},
		{"wrong type", `{"headline":"x","cycles":"five"}`, true},
		{"negative", `{"headline":"x","cycles":-1}`, true},
		{"bad enum", `{"headline":"x","cycles":3,"rating":"great"}`, true},
		{"too long", `{"headline":"a headline far past twenty","cycles":3}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Check(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			var invErr *ErrInvalidResponse
			if err != nil && !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
		})
	}
}

func TestSchemaCheck_SameNameIndependent(t *testing.T) {
	strict := &Schema{Name: "shared", Definition: map[string]any{
		"type": "object", "required": []any{"tip"},
	}}
	loose := &Schema{Name: "shared", Definition: map[string]any{"type": "object"}}

	raw := json.RawMessage(`{}`)
	if err := strict.Check(raw); err == nil {
		t.Error("strict schema accepted an object without tip")
	}
	if err := loose.Check(raw); err != nil {
		t.Errorf("loose schema rejected {}: %v", err)
	}
}

func TestSchemaCheck_BadDefinition(t *testing.T) {
	s := &Schema{Name: "broken", Definition: map[string]any{"type": 12}}
	for range 2 {
		var invErr *ErrInvalidResponse
		if err := s.Check(json.RawMessage(`{}`)); !errors.As(err, &invErr) {
			t.Fatalf("expected ErrInvalidResponse, got: %v", err)
		}
	}
}

func TestSchemaCheck_NestedObjects(t *testing.T) {
	schema := &Schema{
		Name: "test-hypnogram",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"night": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{"type": "string"},
					},
					"required": []any{"id"},
				},
				"minutes": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "integer"},
				},
			},
			"required": []any{"night", "minutes"},
		},
	}

	if err := schema.Check(json.RawMessage(`{"night":{"id":"n1"},"minutes":[5,20,20,25]}`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := schema.Check(json.RawMessage(`{"night":{"id":"n1"},"minutes":["light","deep"]}`)); err == nil {
		t.Fatal("expected error for wrong array item type")
	}
}

func TestResponseDecode(t *testing.T) {
	var out struct {
		Headline string `json:"headline"`
	}
	resp := &Response{Content: json.RawMessage(`{"headline":"Rested"}`)}
	if err := resp.Decode(&out); err != nil || out.Headline != "Rested" {
		t.Fatalf("Decode = %v, %+v", err, out)
	}

	bad := &Response{Content: json.RawMessage(`[1,2]`)}
	var invErr *ErrInvalidResponse
	if err := bad.Decode(&out); !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}
