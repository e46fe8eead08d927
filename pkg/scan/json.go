package scan

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ventgraph/pkg/cache"
	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/network"
)

// Document is the serialized form of a network shared by the JSON and TOML
// readers.
type Document struct {
	Nodes []network.Node `json:"nodes" toml:"node"`
}

// DocumentOf returns the serializable form of net.
func DocumentOf(net *network.Network) Document {
	return Document{Nodes: net.Nodes()}
}

// ReadJSON decodes a JSON network from r.
//
// The input must be an object with a "nodes" array; each node carries "id",
// "rate" and "tunnels". Unknown fields are ignored. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*network.Network, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json")
	}
	return network.New(doc.Nodes)
}

// WriteJSON encodes net as indented JSON. The output round-trips through
// [ReadJSON].
func WriteJSON(net *network.Network, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(DocumentOf(net))
}

// ReadTOML decodes a TOML network from r:
//
//	[[node]]
//	id = "AA"
//	rate = 0
//	tunnels = ["DD", "II", "BB"]
func ReadTOML(r io.Reader) (*network.Network, error) {
	var doc Document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode toml")
	}
	return network.New(doc.Nodes)
}

// WriteTOML encodes net as [[node]] tables.
func WriteTOML(net *network.Network, w io.Writer) error {
	return toml.NewEncoder(w).Encode(DocumentOf(net))
}

// Canonical returns the compact JSON encoding of net. Two networks with the
// same nodes in the same order have identical canonical bytes.
func Canonical(net *network.Network) []byte {
	var buf bytes.Buffer
	// encoding a slice of plain structs cannot fail
	_ = json.NewEncoder(&buf).Encode(DocumentOf(net))
	return bytes.TrimSpace(buf.Bytes())
}

// Hash returns the SHA-256 of net's canonical encoding.
func Hash(net *network.Network) string {
	return cache.Hash(Canonical(net))
}
