package search_test

import (
	"fmt"

	"github.com/matzehuels/ventgraph/pkg/network"
	"github.com/matzehuels/ventgraph/pkg/search"
)

func ExampleEngine_Evaluate() {
	net, _ := network.New([]network.Node{
		{ID: "S", Tunnels: []string{"A"}},
		{ID: "A", Rate: 10, Tunnels: []string{"S", "B"}},
		{ID: "B", Rate: 1, Tunnels: []string{"A"}},
	})
	tbl, _ := network.Build(net, "S")
	e := search.New(tbl, nil)

	fmt.Println(e.Evaluate(5, tbl.Start(), 0))
	fmt.Println(search.Split(e, 5, tbl.Start()).Value)
	// Output:
	// 31
	// 32
}
