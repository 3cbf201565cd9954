package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	soundID = "6a1f4f5e-2c4b-4d7e-9a50-1b2c3d4e5f60"
	itemID  = "0b8d2f0e-93c1-4a7b-8e65-7c6d5e4f3a21"
	ruleID  = "f3e2d1c0-b9a8-4765-8432-10fedcba9876"
)

func TestSchemaValidator_ValidateBundle(t *testing.T) {
	validator := NewSchemaValidator()

	tests := []struct {
		name      string
		data      string
		wantError bool
		errorMsg  string
	}{
		{
			name:      "empty bundle",
			data:      `{}`,
			wantError: false,
		},
		{
			name: "full bundle",
			data: `{
				"sounds": [{"id": "` + soundID + `", "name": "bonk", "src": "bonk.ogg", "volume": 0.5}],
				"items": [{"id": "` + itemID + `", "name": "tomato", "image_src": "tomato.png", "scale": 1, "impact_sound_ids": ["` + soundID + `"]}],
				"rules": [{
					"id": "` + ruleID + `", "name": "every five", "enabled": true,
					"trigger": {"type": "timer", "interval_seconds": 300},
					"outcome": {"type": "trigger_hotkey", "hotkey_id": "wave"},
					"minimum_role": "none"
				}]
			}`,
			wantError: false,
		},
		{
			name:      "unknown top-level key",
			data:      `{"users": []}`,
			wantError: true,
			errorMsg:  "additionalProperties",
		},
		{
			name:      "sound missing src",
			data:      `{"sounds": [{"id": "` + soundID + `", "name": "bonk"}]}`,
			wantError: true,
			errorMsg:  "/sounds/0",
		},
		{
			name:      "sound too loud",
			data:      `{"sounds": [{"id": "` + soundID + `", "name": "bonk", "src": "b.ogg", "volume": 2}]}`,
			wantError: true,
			errorMsg:  "maximum",
		},
		{
			name:      "item id is not a uuid",
			data:      `{"items": [{"id": "tomato", "name": "tomato", "image_src": "t.png"}]}`,
			wantError: true,
			errorMsg:  "pattern",
		},
		{
			name: "unknown trigger type",
			data: `{"rules": [{"id": "` + ruleID + `", "name": "r",
				"trigger": {"type": "raid"}, "outcome": {"type": "play_sound"}}]}`,
			wantError: true,
			errorMsg:  "enum",
		},
		{
			name: "zero timer interval",
			data: `{"rules": [{"id": "` + ruleID + `", "name": "r",
				"trigger": {"type": "timer", "interval_seconds": 0}, "outcome": {"type": "play_sound"}}]}`,
			wantError: true,
			errorMsg:  "minimum",
		},
		{
			name: "timer interval over a year",
			data: `{"rules": [{"id": "` + ruleID + `", "name": "r",
				"trigger": {"type": "timer", "interval_seconds": 9223372036854775808}, "outcome": {"type": "play_sound"}}]}`,
			wantError: true,
			errorMsg:  "maximum",
		},
		{
			name:      "invalid JSON",
			data:      `{"sounds": [}`,
			wantError: true,
			errorMsg:  "parse JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateBytes([]byte(tt.data), SchemaBundle)

			if tt.wantError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain %q, got: %v", tt.errorMsg, err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestSchemaValidator_ValidateFile(t *testing.T) {
	validator := NewSchemaValidator()

	dataPath := filepath.Join(t.TempDir(), "bundle.json")
	if err := os.WriteFile(dataPath, []byte(`{"sounds": []}`), 0644); err != nil {
		t.Fatalf("Failed to write data file: %v", err)
	}

	if err := validator.ValidateFile(dataPath, SchemaBundle); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestSchemaValidator_UnknownSchema(t *testing.T) {
	validator := NewSchemaValidator()

	err := validator.ValidateBytes([]byte(`{}`), "nonexistent.schema.json")
	if err == nil {
		t.Fatal("Expected error for unknown schema")
	}
	if !strings.Contains(err.Error(), "failed to load schema") {
		t.Errorf("Expected 'failed to load schema' error, got: %v", err)
	}
}

func TestSchemaValidator_InvalidDataFile(t *testing.T) {
	validator := NewSchemaValidator()

	err := validator.ValidateFile("nonexistent.json", SchemaBundle)
	if err == nil {
		t.Fatal("Expected error for non-existent data file")
	}
	if !strings.Contains(err.Error(), "failed to read data file") {
		t.Errorf("Expected 'failed to read data file' error, got: %v", err)
	}
}

func TestSchemaValidator_CachesCompiledSchemas(t *testing.T) {
	v := NewSchemaValidator().(*validator)

	data := []byte(`{"rules": []}`)
	if err := v.ValidateBytes(data, SchemaBundle); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	if len(v.schemas) != 1 {
		t.Errorf("Expected 1 cached schema, got %d", len(v.schemas))
	}

	if err := v.ValidateBytes(data, SchemaBundle); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if len(v.schemas) != 1 {
		t.Errorf("Expected 1 cached schema after second validation, got %d", len(v.schemas))
	}
}
