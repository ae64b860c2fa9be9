package models

import "metroplanner.transit.org/internal/network"

// LineReference is the compact form of a line listed alongside an entry.
type LineReference struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ReferencesModel holds the lines and stations an entry or list mentions by id.
type ReferencesModel struct {
	Lines    []LineReference `json:"lines"`
	Stations []StationModel  `json:"stations"`
}

// NewEmptyReferences creates a References model with initialized empty slices.
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Lines:    []LineReference{},
		Stations: []StationModel{},
	}
}

// AddLine appends line unless a line with the same key is already referenced.
func (r *ReferencesModel) AddLine(line *network.Line) {
	if line == nil {
		return
	}
	for _, l := range r.Lines {
		if l.Key == line.Key {
			return
		}
	}
	r.Lines = append(r.Lines, LineReference{Key: line.Key, Name: line.Name, Color: line.Color})
}
