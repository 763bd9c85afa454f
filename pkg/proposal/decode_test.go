package proposal

import (
	"strings"
	"testing"

	"github.com/matzehuels/archsketch/pkg/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantErr    bool
		components int
		firstName  string
	}{
		{
			name:       "plain",
			input:      `{"components":[{"name":"API Server","type":"api-server","description":"REST"}],"connections":[]}`,
			components: 1,
			firstName:  "API Server",
		},
		{
			name:       "markdown fence",
			input:      "```json\n{\"components\":[{\"name\":\"DB\",\"type\":\"database\"}],\"connections\":[]}\n```",
			components: 1,
			firstName:  "DB",
		},
		{
			name:       "double encoded",
			input:      `"{\"components\":[{\"name\":\"Cache\",\"type\":\"cache\"}],\"connections\":[]}"`,
			components: 1,
			firstName:  "Cache",
		},
		{
			name:       "missing closing braces",
			input:      `{"components":[{"name":"Queue","type":"queue"}],"connections":[]`,
			components: 1,
			firstName:  "Queue",
		},
		{
			name:       "missing name tolerated",
			input:      `{"components":[{"type":"database"}],"connections":[]}`,
			components: 1,
			firstName:  "",
		},
		{
			name:    "missing connections",
			input:   `{"components":[]}`,
			wantErr: true,
		},
		{
			name:    "missing components",
			input:   `{"connections":[]}`,
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "name too long",
			input:   `{"components":[{"name":"` + strings.Repeat("x", 300) + `","type":"db"}],"connections":[]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidPayload) {
					t.Fatalf("Decode() err = %v, want INVALID_PAYLOAD", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() err = %v", err)
			}
			if len(p.Components) != tt.components {
				t.Fatalf("components = %d, want %d", len(p.Components), tt.components)
			}
			if p.Components[0].Name != tt.firstName {
				t.Errorf("name = %q, want %q", p.Components[0].Name, tt.firstName)
			}
		})
	}
}

func TestDecodeReader(t *testing.T) {
	p, err := DecodeReader(strings.NewReader(`{"components":[],"connections":[{"from":"a","to":"b"}],"description":"wire a to b"}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Connections) != 1 || p.Description != "wire a to b" {
		t.Errorf("payload = %+v", p)
	}
	if p.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
}

func TestSchema(t *testing.T) {
	m := SchemaMap()
	props, ok := m["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %v", m)
	}
	for _, key := range []string{"components", "connections", "description"} {
		if _, ok := props[key]; !ok {
			t.Errorf("schema missing %q", key)
		}
	}
	if Schema() != Schema() {
		t.Error("Schema() not cached")
	}
}
