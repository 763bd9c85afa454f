package proposal

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
)

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

// Schema returns the JSON Schema of [Payload], inlined and closed to
// additional properties, for use as a structured-output constraint.
func Schema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		r := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}
		schema = r.Reflect(&Payload{})
	})
	return schema
}

// SchemaJSON returns [Schema] encoded as JSON.
func SchemaJSON() json.RawMessage {
	data, err := json.Marshal(Schema())
	if err != nil {
		// Reflected schemas always marshal.
		panic(err)
	}
	return data
}

// SchemaMap returns [Schema] as a generic map, the shape most SDKs accept.
func SchemaMap() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(SchemaJSON(), &m)
	return m
}
