package models

import "metroplanner.transit.org/internal/network"

// StationModel is one line-platform with the display data a client needs to
// draw it: name, coordinates and line color.
type StationModel struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	LineKey          string  `json:"lineKey"`
	Color            string  `json:"color"`
	Index            int     `json:"index"`
	InterchangeID    string  `json:"interchangeId,omitempty"`
	ForwardPlatform  int     `json:"forwardPlatform"`
	BackwardPlatform int     `json:"backwardPlatform"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
}

func NewStationModel(n *network.Network, s *network.Station) StationModel {
	m := StationModel{
		ID:               s.ID,
		Name:             s.Name,
		LineKey:          s.LineKey,
		Index:            s.Index,
		InterchangeID:    s.InterchangeID,
		ForwardPlatform:  s.Platform(network.Forward),
		BackwardPlatform: s.Platform(network.Backward),
		Lat:              s.Lat,
		Lon:              s.Lon,
	}
	if line, ok := n.Line(s.LineKey); ok {
		m.Color = line.Color
	}
	return m
}

// PlaceModel is a physical station as shown in a station picker.
type PlaceModel struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	StationIDs  []string `json:"stationIds"`
	LineKeys    []string `json:"lineKeys"`
	Colors      []string `json:"colors"`
	Interchange bool     `json:"interchange"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
}

func NewPlaceModel(p *network.Place) PlaceModel {
	return PlaceModel{
		Key:         p.Key,
		Name:        p.Name,
		StationIDs:  append([]string(nil), p.StationIDs...),
		LineKeys:    append([]string(nil), p.LineKeys...),
		Colors:      append([]string(nil), p.Colors...),
		Interchange: p.IsInterchange(),
		Lat:         p.Lat,
		Lon:         p.Lon,
	}
}

// LineModel is a line with its stations in index order and the names of the
// terminals in each direction.
type LineModel struct {
	Key              string         `json:"key"`
	Name             string         `json:"name"`
	Color            string         `json:"color"`
	ForwardTerminal  string         `json:"forwardTerminal"`
	BackwardTerminal string         `json:"backwardTerminal"`
	Stations         []StationModel `json:"stations"`
}

func NewLineModel(n *network.Network, line *network.Line) LineModel {
	m := LineModel{
		Key:      line.Key,
		Name:     line.Name,
		Color:    line.Color,
		Stations: make([]StationModel, 0, len(line.Stations)),
	}
	m.ForwardTerminal, _ = n.Terminal(line.Key, network.Forward)
	m.BackwardTerminal, _ = n.Terminal(line.Key, network.Backward)
	for i := range line.Stations {
		m.Stations = append(m.Stations, NewStationModel(n, &line.Stations[i]))
	}
	return m
}

// NearestStationModel answers a nearest-station lookup.
type NearestStationModel struct {
	Station        StationModel `json:"station"`
	DistanceMeters float64      `json:"distanceMeters"`
}
