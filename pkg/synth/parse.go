package synth

import (
	"regexp"
	"strings"

	"github.com/matzehuels/archsketch/pkg/proposal"
)

var (
	// "create|add|include [a|an] <type phrase> [called|named <name>]"
	creationPattern = regexp.MustCompile(`(?i)\b(?:create|add|include)\s+(?:an?\s+)?(\w+(?:\s+\w+)*?)(?:\s+(?:called|named)\s+(.+?))?(?:\s+that|\s+to|\s+for|$)`)

	// "<entity> connects to|talks to|sends to|communicates with <entity>"
	relationPattern = regexp.MustCompile(`(?i)(\w+(?:\s+\w+)*?)\s+(?:connects?\s+to|talks?\s+to|sends?\s+to|communicates?\s+with)\s+(\w+(?:\s+\w+)*)`)

	// trailing "that|to|for <description>" clause
	descriptionPattern = regexp.MustCompile(`(?i)\b(?:that|to|for)\s+(.+?)(?:\.|$)`)

	quoteStripper = strings.NewReplacer(`"`, "", `'`, "")
)

// ParseText extracts proposals from free-form text, one line at a time.
//
// A line may yield a component, a connection, both, or nothing. Component
// types are normalised with [NormalizeType]; connection endpoints are the
// captured phrases, trimmed. ParseText never fails: unrecognised lines are
// skipped.
func ParseText(text string) ([]proposal.Component, []proposal.Connection) {
	var (
		components  []proposal.Component
		connections []proposal.Connection
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if c, ok := parseComponent(line); ok {
			components = append(components, c)
		}
		if c, ok := parseConnection(line); ok {
			connections = append(connections, c)
		}
	}
	return components, connections
}

// ParsePayload is [ParseText] wrapped as a payload.
func ParsePayload(text string) proposal.Payload {
	comps, conns := ParseText(text)
	return proposal.Payload{Components: comps, Connections: conns}
}

func parseComponent(line string) (proposal.Component, bool) {
	m := creationPattern.FindStringSubmatch(line)
	if m == nil {
		return proposal.Component{}, false
	}
	phrase := strings.ToLower(m[1])
	name := strings.TrimSpace(quoteStripper.Replace(m[2]))
	if name == "" {
		name = m[1]
	}
	return proposal.Component{
		Name:        name,
		Type:        NormalizeType(phrase),
		Description: parseDescription(line),
	}, true
}

func parseConnection(line string) (proposal.Connection, bool) {
	m := relationPattern.FindStringSubmatch(line)
	if m == nil {
		return proposal.Connection{}, false
	}
	return proposal.Connection{
		From: strings.TrimSpace(m[1]),
		To:   strings.TrimSpace(m[2]),
	}, true
}

func parseDescription(line string) string {
	m := descriptionPattern.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
