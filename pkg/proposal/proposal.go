// Package proposal defines the unresolved, name-based description of an
// architecture that the synthesis engine merges into a diagram.
//
// Proposals come from two places: the structured JSON payload returned by a
// generative service (decoded with [Decode]) and the free-text fallback
// parser in package synth. Both produce the same [Component] and
// [Connection] values.
package proposal

// Component is a proposed architecture component. Name is matched against
// existing node labels; Type is a free-form phrase normalised later.
type Component struct {
	Name        string `json:"name" jsonschema:"description=Short display name of the component" validate:"max=256"`
	Type        string `json:"type" jsonschema_description:"Component kind such as load-balancer, database, api-server, cache, cdn, message-broker, web-client or mobile-client"`
	Description string `json:"description,omitempty" jsonschema:"description=What the component does"`
}

// Connection is a proposed directed link between two components, referenced
// by name.
type Connection struct {
	From        string `json:"from" jsonschema:"description=Name of the source component"`
	To          string `json:"to" jsonschema:"description=Name of the target component"`
	Description string `json:"description,omitempty" jsonschema:"description=What flows over the connection"`
}

// Payload is the structured output of the generative service.
type Payload struct {
	Components  []Component  `json:"components" validate:"required,dive"`
	Connections []Connection `json:"connections" validate:"required"`
	Description string       `json:"description,omitempty" jsonschema:"description=One sentence summary of the change"`
}

// IsEmpty reports whether the payload proposes nothing.
func (p Payload) IsEmpty() bool {
	return len(p.Components) == 0 && len(p.Connections) == 0
}
