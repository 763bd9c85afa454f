package synth

import (
	"strings"

	"github.com/matzehuels/archsketch/pkg/diagram"
)

// TypeRule maps phrases containing Key to Type.
type TypeRule struct {
	Key  string
	Type string
}

// TypeRules is the ordered rule table used by [NormalizeType]. Earlier rules
// take priority: "api server" must precede "server" and "microservice" must
// precede "service".
var TypeRules = buildTypeRules()

func buildTypeRules() []TypeRule {
	rules := []TypeRule{
		{"web server", diagram.TypeServer},
		{"api server", diagram.TypeAPI},
		{"database", diagram.TypeDatabase},
		{"load balancer", diagram.TypeNetwork},
		{"cache", diagram.TypeStorage},
		{"frontend", diagram.TypeFrontend},
		{"mobile app", diagram.TypeMobile},
		{"microservice", diagram.TypeAPI},
		{"service", diagram.TypeAPI},
		{"queue", diagram.TypeStorage},
		{"cdn", diagram.TypeCloud},
		{"auth", diagram.TypeSecurity},
		{"payment", diagram.TypePayment},
		{"notification", diagram.TypeNotification},
		{"search", diagram.TypeSearch},
		{"analytics", diagram.TypeAnalytics},

		// Phrases the generative service is prompted to use.
		{"gateway", diagram.TypeNetwork},
		{"proxy", diagram.TypeNetwork},
		{"balancer", diagram.TypeNetwork},
		{"broker", diagram.TypeStorage},
		{"bucket", diagram.TypeStorage},
		{"worker", diagram.TypeCompute},
		{"function", diagram.TypeCompute},
		{"mail", diagram.TypeEmail},
	}
	for _, t := range diagram.NodeTypes {
		rules = append(rules, TypeRule{Key: t, Type: t})
	}
	return rules
}

// NormalizeType maps a free-form type phrase to a canonical node type. The
// phrase is lowercased and hyphens and underscores become spaces, so
// "api-server" and "API_Server" both match "api server". It never fails:
// unmatched phrases yield [diagram.DefaultType].
func NormalizeType(phrase string) string {
	return normalizeWith(TypeRules, phrase)
}

func normalizeWith(rules []TypeRule, phrase string) string {
	p := foldPhrase(phrase)
	if p == "" {
		return diagram.DefaultType
	}
	for _, r := range rules {
		if strings.Contains(p, r.Key) {
			return r.Type
		}
	}
	return diagram.DefaultType
}

var phraseFolder = strings.NewReplacer("-", " ", "_", " ")

func foldPhrase(s string) string {
	s = phraseFolder.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}
