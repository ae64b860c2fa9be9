package network

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"metroplanner.transit.org/internal/logging"
)

//go:embed default_network.json
var defaultNetworkJSON []byte

// Document is the JSON layout of a network definition file.
type Document struct {
	Name     string `json:"name"`
	TimeZone string `json:"timeZone,omitempty"`
	Lines    []Line `json:"lines"`
}

// LoadJSON decodes a network Document and validates it.
func LoadJSON(r io.Reader) (*Network, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding network definition: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument builds a Network from an already decoded Document.
func FromDocument(doc Document) (*Network, error) {
	n, err := New(doc.Name, doc.Lines)
	if err != nil {
		return nil, err
	}
	n.timeZone = doc.TimeZone
	return n, nil
}

// LoadFile reads a network definition from a JSON file on disk.
func LoadFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening network file: %w", err)
	}
	defer logging.SafeCloseWithLogging(f,
		slog.Default().With(slog.String("component", "network_loader")),
		"network_file")

	return LoadJSON(f)
}

// Default returns the embedded three-line network.
func Default() (*Network, error) {
	return LoadJSON(bytes.NewReader(defaultNetworkJSON))
}

// ToDocument converts the network back into its file representation.
func (n *Network) ToDocument() Document {
	doc := Document{Name: n.name, TimeZone: n.timeZone}
	for _, line := range n.lines {
		l := Line{Key: line.Key, Name: line.Name, Color: line.Color, Stations: make([]Station, len(line.Stations))}
		copy(l.Stations, line.Stations)
		doc.Lines = append(doc.Lines, l)
	}
	return doc
}
