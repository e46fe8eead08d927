package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/ventgraph/pkg/network"
	"github.com/matzehuels/ventgraph/pkg/render/nodelink"
)

func ExampleToDOT() {
	net, _ := network.New([]network.Node{
		{ID: "AA", Tunnels: []string{"BB"}},
		{ID: "BB", Rate: 13, Tunnels: []string{"AA"}},
	})

	dot := nodelink.ToDOT(net, nodelink.Options{
		Start:  "AA",
		Routes: []nodelink.Route{{Nodes: []string{"BB"}, Distances: []int{1}}},
	})

	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "AA" -> "BB" [dir=none, color=grey50];
	// "AA" -> "BB" [style=dashed, penwidth=2, color="#d62728", fontcolor="#d62728", label="1"];
}
