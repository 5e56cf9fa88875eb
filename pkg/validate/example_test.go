package validate_test

import (
	"fmt"

	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/validate"
)

func ExampleValidate() {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "fetch"}, {ID: "parse"}, {ID: "store"}},
		Edges: []graph.Edge{
			{ID: "e1", Source: "fetch", Target: "parse"},
			{ID: "e2", Source: "parse", Target: "store"},
			{ID: "e3", Source: "store", Target: "fetch"},
		},
	}

	r := validate.Validate(g)
	fmt.Println(r.Summary())
	for _, msg := range r.Errors {
		fmt.Println("error:", msg)
	}
	for _, msg := range r.Info {
		fmt.Println("info:", msg)
	}
	// Output:
	// Invalid DAG (1 error)
	// error: Pipeline contains cycles - DAGs cannot have circular dependencies
	// info: 3 nodes, 3 edges
}

func ExampleValidate_unconnected() {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "n1"}, {ID: "n2"}},
	}

	r := validate.Validate(g)
	fmt.Println("valid:", r.Valid)
	fmt.Println("errors:", r.Errors)
	fmt.Println("warnings:", r.Warnings)
	fmt.Println("info:", r.Info)
	// Output:
	// valid: false
	// errors: [2 node(s) are not connected to any edges]
	// warnings: [No connections between nodes]
	// info: [2 nodes, 0 edges]
}
