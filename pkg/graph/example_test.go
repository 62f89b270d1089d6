package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/layout/force"
)

func ExampleWriteSnapshot() {
	s := graph.Snapshot{
		Anchor: "root",
		Nodes: []graph.Node{
			{ID: "root", Category: force.CategoryCore, X: 0.5, Y: 0.5},
			{ID: "alice", Category: force.CategoryHubEntity, X: 0.25, Y: 0.5, Label: "Alice"},
		},
		Edges: []graph.Edge{{From: "root", To: "alice"}},
	}

	var buf bytes.Buffer
	if err := graph.WriteSnapshot(s, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "anchor": "root",
	//   "nodes": [
	//     {
	//       "id": "root",
	//       "category": "core",
	//       "x": 0.5,
	//       "y": 0.5
	//     },
	//     {
	//       "id": "alice",
	//       "category": "hub-entity",
	//       "x": 0.25,
	//       "y": 0.5,
	//       "label": "Alice"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "root",
	//       "to": "alice"
	//     }
	//   ]
	// }
}

func ExampleReadSnapshot() {
	input := `{
		"anchor": "root",
		"nodes": [
			{"id": "root", "category": "core", "x": 0.5, "y": 0.5},
			{"id": "rule-1", "category": "rule", "x": 0.8, "y": 0.2}
		]
	}`

	s, err := graph.ReadSnapshot(strings.NewReader(input))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, spec := range s.ToSpecs() {
		fmt.Printf("%s anchor=%v target=(%.1f, %.1f)\n", spec.ID, spec.Anchor, spec.Target.X, spec.Target.Y)
	}
	// Output:
	// root anchor=true target=(0.5, 0.5)
	// rule-1 anchor=false target=(0.8, 0.2)
}

func ExampleNewFrame() {
	s := graph.Snapshot{
		Anchor: "root",
		Nodes: []graph.Node{
			{ID: "root", Category: force.CategoryCore, X: 0, Y: 0},
			{ID: "alice", X: 0.25, Y: 0.5},
		},
	}

	e := force.New(force.DefaultParams())
	e.Initialize(s.ToSpecs(), force.Size{Width: 800, Height: 600})

	data, err := graph.MarshalFrame(graph.NewFrame(e))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(string(data))
	// Output:
	// {
	//   "width": 800,
	//   "height": 600,
	//   "tick": 0,
	//   "positions": {
	//     "alice": {
	//       "x": 200,
	//       "y": 300
	//     },
	//     "root": {
	//       "x": 400,
	//       "y": 300
	//     }
	//   }
	// }
}
