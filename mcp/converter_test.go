package mcp

import (
	"testing"

	"github.com/ollama/ollama/api"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

func TestConvertToolsToOllama(t *testing.T) {
	tests := []struct {
		name     string
		input    []ToolDefinition
		expected int // expected tool count
		validate func(t *testing.T, result []api.Tool)
	}{
		{
			name:     "empty tools",
			input:    []ToolDefinition{},
			expected: 0,
			validate: func(t *testing.T, result []api.Tool) {
				if len(result) != 0 {
					t.Errorf("expected empty slice, got %d tools", len(result))
				}
			},
		},
		{
			name: "single simple tool",
			input: []ToolDefinition{
				{
					ID:          "weather:get_weather",
					Name:        "weather__get_weather",
					Description: "Get current weather",
					InputSchema: mcptypes.ToolInputSchema{
						Type:       "object",
						Properties: map[string]any{},
						Required:   []string{},
					},
				},
			},
			expected: 1,
			validate: func(t *testing.T, result []api.Tool) {
				if result[0].Type != "function" {
					t.Errorf("expected type 'function', got %q", result[0].Type)
				}
				if result[0].Function.Name != "weather__get_weather" {
					t.Errorf("expected exposed name, got %q", result[0].Function.Name)
				}
				if result[0].Function.Description != "Get current weather" {
					t.Errorf("description mismatch: %q", result[0].Function.Description)
				}
			},
		},
		{
			name: "tool with properties",
			input: []ToolDefinition{
				{
					ID:          "math:calculate",
					Name:        "math__calculate",
					Description: "Perform calculation",
					InputSchema: mcptypes.ToolInputSchema{
						Type: "object",
						Properties: map[string]any{
							"operation": map[string]any{
								"type":        "string",
								"description": "The operation to perform",
								"enum":        []any{"add", "subtract", "multiply", "divide"},
							},
							"a": map[string]any{
								"type":        "number",
								"description": "First operand",
							},
							"b": map[string]any{
								"type":        "number",
								"description": "Second operand",
							},
						},
						Required: []string{"operation", "a", "b"},
					},
				},
			},
			expected: 1,
			validate: func(t *testing.T, result []api.Tool) {
				params := result[0].Function.Parameters
				if params.Type != "object" {
					t.Errorf("expected type 'object', got %q", params.Type)
				}
				if len(params.Required) != 3 {
					t.Errorf("expected 3 required fields, got %d", len(params.Required))
				}
				if len(params.Properties) != 3 {
					t.Errorf("expected 3 properties, got %d", len(params.Properties))
				}

				opProp, ok := params.Properties["operation"]
				if !ok {
					t.Fatal("operation property not found")
				}
				if opProp.Description != "The operation to perform" {
					t.Errorf("operation description mismatch")
				}
				if len(opProp.Enum) != 4 {
					t.Errorf("expected 4 enum values, got %d", len(opProp.Enum))
				}
			},
		},
		{
			name: "type as list of strings",
			input: []ToolDefinition{
				{
					ID:   "fs:read",
					Name: "fs__read",
					InputSchema: mcptypes.ToolInputSchema{
						Type: "object",
						Properties: map[string]any{
							"path": map[string]any{
								"type": []any{"string", "null"},
							},
						},
					},
				},
			},
			expected: 1,
			validate: func(t *testing.T, result []api.Tool) {
				prop := result[0].Function.Parameters.Properties["path"]
				if len(prop.Type) != 2 {
					t.Errorf("expected 2 type entries, got %v", prop.Type)
				}
			},
		},
		{
			name: "anyOf property",
			input: []ToolDefinition{
				{
					ID:   "fs:write",
					Name: "fs__write",
					InputSchema: mcptypes.ToolInputSchema{
						Type: "object",
						Properties: map[string]any{
							"content": map[string]any{
								"anyOf": []any{
									map[string]any{"type": "string"},
									map[string]any{"type": "number"},
								},
							},
						},
					},
				},
			},
			expected: 1,
			validate: func(t *testing.T, result []api.Tool) {
				prop := result[0].Function.Parameters.Properties["content"]
				if len(prop.AnyOf) != 2 {
					t.Fatalf("expected 2 anyOf entries, got %d", len(prop.AnyOf))
				}
				if len(prop.AnyOf[0].Type) != 1 || prop.AnyOf[0].Type[0] != "string" {
					t.Errorf("anyOf[0].Type = %v", prop.AnyOf[0].Type)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToolsToOllama(tt.input)
			if len(result) != tt.expected {
				t.Fatalf("expected %d tools, got %d", tt.expected, len(result))
			}
			tt.validate(t, result)
		})
	}
}

func TestConvertToolsToOpenAI(t *testing.T) {
	tools := []ToolDefinition{
		{
			ID:          "search:query",
			Name:        "search__query",
			Description: "Run a search",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"q": map[string]any{"type": "string"},
				},
				Required: []string{"q"},
			},
		},
	}

	result := ConvertToolsToOpenAI(tools)
	if len(result) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(result))
	}

	fn := result[0].OfFunction
	if fn == nil {
		t.Fatal("expected function tool variant")
	}
	if fn.Function.Name != "search__query" {
		t.Errorf("Name = %q", fn.Function.Name)
	}
	if fn.Function.Parameters["type"] != "object" {
		t.Errorf("Parameters type = %v", fn.Function.Parameters["type"])
	}
	required, ok := fn.Function.Parameters["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "q" {
		t.Errorf("Parameters required = %v", fn.Function.Parameters["required"])
	}

	if ConvertToolsToOpenAI(nil) != nil {
		t.Error("expected nil for empty input")
	}
}

func TestConvertToolsToAnthropic(t *testing.T) {
	tools := []ToolDefinition{
		{
			ID:          "fs:read_file",
			Name:        "fs__read_file",
			Description: "Read a file",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"path": map[string]any{"type": "string"},
				},
				Required: []string{"path"},
			},
		},
		{
			ID:   "fs:list",
			Name: "fs__list",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
			},
		},
	}

	result := ConvertToolsToAnthropic(tools)
	if len(result) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(result))
	}

	first := result[0].OfTool
	if first == nil {
		t.Fatal("expected tool variant")
	}
	if first.Name != "fs__read_file" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.Description.Value != "Read a file" {
		t.Errorf("Description = %q", first.Description.Value)
	}
	if len(first.InputSchema.Required) != 1 {
		t.Errorf("Required = %v", first.InputSchema.Required)
	}

	if ConvertToolsToAnthropic(nil) != nil {
		t.Error("expected nil for empty input")
	}
}
