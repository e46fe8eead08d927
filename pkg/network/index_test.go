package network_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/network"
)

func TestAssignBits_RegistryOrder(t *testing.T) {
	net, err := network.New(caveNodes())
	require.NoError(t, err)

	idx, err := network.AssignBits(net)
	require.NoError(t, err)
	require.Equal(t, 6, idx.Len())
	require.Equal(t, network.Mask(0b111111), idx.Full())

	want := []string{"BB", "CC", "DD", "EE", "HH", "JJ"}
	for b, id := range want {
		require.Equal(t, id, idx.ID(b))
		p, _ := net.Position(id)
		got, ok := idx.Position(p)
		require.True(t, ok)
		require.Equal(t, b, got)
		bit, ok := idx.Bit(p)
		require.True(t, ok)
		require.Equal(t, network.Mask(1)<<uint(b), bit)
	}

	// zero-rate nodes get no bit
	aa, _ := net.Position("AA")
	_, ok := idx.Bit(aa)
	require.False(t, ok)
}

func TestAssignBits_Deterministic(t *testing.T) {
	net, err := network.New(caveNodes())
	require.NoError(t, err)
	a, err := network.AssignBits(net)
	require.NoError(t, err)
	b, err := network.AssignBits(net)
	require.NoError(t, err)
	require.Equal(t, a.IDs(a.Full()), b.IDs(b.Full()))
}

func TestAssignBits_Capacity(t *testing.T) {
	build := func(k int) *network.Network {
		nodes := make([]network.Node, k)
		for i := range nodes {
			nodes[i] = network.Node{ID: fmt.Sprintf("N%d", i), Rate: 1}
		}
		net, err := network.New(nodes)
		require.NoError(t, err)
		return net
	}

	idx, err := network.AssignBits(build(network.MaxIndexed))
	require.NoError(t, err)
	require.Equal(t, network.MaxIndexed, idx.Len())
	require.Equal(t, network.MaxIndexed, idx.Full().Count())

	_, err = network.AssignBits(build(network.MaxIndexed + 1))
	require.True(t, errs.Is(err, errs.ErrCodeCapacityExceeded))
	require.True(t, errs.IsConfiguration(err))
}

func TestMask(t *testing.T) {
	var m network.Mask
	require.False(t, m.Has(1))
	m = m.With(1).With(4)
	require.True(t, m.Has(4))
	require.False(t, m.Has(2))
	require.Equal(t, 2, m.Count())
}

func TestBitIndex_IDs(t *testing.T) {
	net, err := network.New(caveNodes())
	require.NoError(t, err)
	idx, err := network.AssignBits(net)
	require.NoError(t, err)

	require.Equal(t, []string{"BB", "DD"}, idx.IDs(0b101))
	require.Empty(t, idx.IDs(0))
}
