package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/layout/force"
	"github.com/matzehuels/orbit/pkg/render/nodelink"
)

func ExampleToDOT() {
	s := graph.Snapshot{
		Nodes: []graph.Node{{ID: "a", Category: force.CategoryRule}, {ID: "b"}},
		Edges: []graph.Edge{{From: "a", To: "b"}},
	}
	f := graph.Frame{
		Width:     200,
		Height:    100,
		Positions: map[string]force.Vec{"a": {X: 50, Y: 50}, "b": {X: 150, Y: 25}},
	}

	fmt.Print(nodelink.ToDOT(s, f, nodelink.Options{Edges: true, Labels: true}))
	// Output:
	// graph G {
	//   bgcolor="transparent";
	//   splines=line;
	//   overlap=true;
	//   node [shape=circle, fixedsize=true, style=filled, penwidth=1.5, color="#444444", fontname="Helvetica", fontsize=10];
	//   edge [color="#999999"];
	//   "__corner_min" [style=invis, label="", width=0.01, pos="0,0!"];
	//   "__corner_max" [style=invis, label="", width=0.01, pos="200,100!"];
	//
	//   "a" [label="a", width=0.6111111111111112, fillcolor="#93c47d", pos="50,50!"];
	//   "b" [label="b", width=0.5555555555555556, fillcolor="#cccccc", pos="150,75!"];
	//
	//   "a" -- "b";
	// }
}
