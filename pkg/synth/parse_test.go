package synth

import (
	"reflect"
	"testing"

	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/proposal"
)

func TestParseTextCreation(t *testing.T) {
	tests := []struct {
		name string
		line string
		want proposal.Component
	}{
		{
			name: "load balancer",
			line: "create a load balancer",
			want: proposal.Component{Name: "load balancer", Type: diagram.TypeNetwork},
		},
		{
			name: "named with description",
			line: "add a database called UserDB that stores user profiles.",
			want: proposal.Component{Name: "UserDB", Type: diagram.TypeDatabase, Description: "stores user profiles"},
		},
		{
			name: "quoted name",
			line: `Include a cache named "Session Cache"`,
			want: proposal.Component{Name: "Session Cache", Type: diagram.TypeStorage},
		},
		{
			// "service" precedes "auth" in the rule table, so the phrase is an api.
			name: "article an",
			line: "add an auth service for login",
			want: proposal.Component{Name: "auth service", Type: diagram.TypeAPI, Description: "login"},
		},
		{
			name: "empty quoted name",
			line: `add a database called ""`,
			want: proposal.Component{Name: "database", Type: diagram.TypeDatabase},
		},
		{
			name: "unknown type defaults",
			line: "create a thingamajig",
			want: proposal.Component{Name: "thingamajig", Type: diagram.TypeServer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comps, _ := ParseText(tt.line)
			if len(comps) != 1 {
				t.Fatalf("components = %+v, want 1", comps)
			}
			if comps[0] != tt.want {
				t.Errorf("component = %+v, want %+v", comps[0], tt.want)
			}
		})
	}
}

func TestParseTextLoadBalancerScenario(t *testing.T) {
	comps, conns := ParseText("create a load balancer")
	want := []proposal.Component{{Name: "load balancer", Type: diagram.TypeNetwork}}
	if !reflect.DeepEqual(comps, want) {
		t.Errorf("components = %+v, want %+v", comps, want)
	}
	if len(conns) != 0 {
		t.Errorf("connections = %+v, want none", conns)
	}
}

func TestParseTextRelations(t *testing.T) {
	tests := []struct {
		line string
		want proposal.Connection
	}{
		{"API Server connects to Database", proposal.Connection{From: "API Server", To: "Database"}},
		{"frontend talks to api", proposal.Connection{From: "frontend", To: "api"}},
		{"Orders sends to Queue", proposal.Connection{From: "Orders", To: "Queue"}},
		{"worker communicates with cache", proposal.Connection{From: "worker", To: "cache"}},
		{"web CONNECT TO db", proposal.Connection{From: "web", To: "db"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, conns := ParseText(tt.line)
			if len(conns) != 1 || conns[0] != tt.want {
				t.Errorf("connections = %+v, want %+v", conns, tt.want)
			}
		})
	}
}

func TestParseTextMultiline(t *testing.T) {
	text := `create a web server
add a database

API connects to Database
this line means nothing
`
	comps, conns := ParseText(text)
	if len(comps) != 2 || len(conns) != 1 {
		t.Fatalf("components = %+v connections = %+v", comps, conns)
	}
	if comps[0].Type != diagram.TypeServer || comps[1].Type != diagram.TypeDatabase {
		t.Errorf("types = %q, %q", comps[0].Type, comps[1].Type)
	}
}

func TestParseTextBothOnOneLine(t *testing.T) {
	comps, conns := ParseText("add a cache that connects to database")
	if len(comps) != 1 || comps[0].Name != "cache" {
		t.Errorf("components = %+v", comps)
	}
	if len(conns) != 1 || conns[0].To != "database" {
		t.Errorf("connections = %+v", conns)
	}
}

func TestParseTextNeverFails(t *testing.T) {
	for _, in := range []string{"", "\n\n", "   ", "???", "connects to", "create", "add \"\""} {
		comps, conns := ParseText(in)
		if len(comps) != 0 || len(conns) != 0 {
			t.Errorf("ParseText(%q) = %+v, %+v; want nothing", in, comps, conns)
		}
	}
}

func TestParseThenMerge(t *testing.T) {
	p := ParsePayload("create an api server called Orders API\nadd a database called Orders DB\nOrders API connects to Orders DB")
	r := newTestEngine().MergePayload(diagram.Diagram{}, p)
	if len(r.Nodes) != 2 || len(r.Edges) != 1 {
		t.Fatalf("nodes = %d edges = %d", len(r.Nodes), len(r.Edges))
	}
	if r.Nodes[0].Data.Type != diagram.TypeAPI {
		t.Errorf("type = %q", r.Nodes[0].Data.Type)
	}
}
