package diagram_test

import (
	"fmt"

	"github.com/matzehuels/archsketch/pkg/diagram"
)

func ExampleDiagram_Summary() {
	var d diagram.Diagram
	fmt.Println(d.Summary())

	d = d.AddNode(diagram.NodeData{Label: "Web App", Type: diagram.TypeFrontend}, "node-1")
	d = d.AddNode(diagram.NodeData{Label: "Database", Type: diagram.TypeDatabase}, "node-2")
	fmt.Println(d.Summary())
	// Output:
	// Starting with empty system
	// Current system has 2 components: Web App, Database
}

func ExampleDiagram_DeleteNode() {
	d := diagram.Diagram{}.
		AddNode(diagram.NodeData{Label: "API", Type: diagram.TypeAPI}, "api").
		AddNode(diagram.NodeData{Label: "DB", Type: diagram.TypeDatabase}, "db")
	d, _ = d.AddEdge("api", "db", "e1")

	d, _ = d.DeleteNode("db")
	fmt.Println(len(d.Nodes), len(d.Edges))
	// Output: 1 0
}
