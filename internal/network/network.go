// Package network holds the static metro network: lines, their ordered
// stations, hop times and distances, and the interchange links between
// platforms of the same physical station. A Network is built once and is
// read-only afterwards, so it can be shared by concurrent queries.
package network

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"metroplanner.transit.org/internal/utils"
)

// InterchangeMarker tags the walking edges between platforms. It can never be
// used as a line key.
const InterchangeMarker = "interchange"

// ErrInvalidNetwork is returned when line or station definitions are inconsistent.
var ErrInvalidNetwork = errors.New("invalid network")

// Direction of travel along a line. Forward follows station index order.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Platforms maps a direction of travel to its platform number. Zero means
// unspecified.
type Platforms struct {
	Forward  int `json:"forward,omitempty"`
	Backward int `json:"backward,omitempty"`
}

// Station is one line-platform. A physical station served by N lines is N
// Stations sharing Name and InterchangeID.
type Station struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	LineKey        string     `json:"lineKey,omitempty"`
	Index          int        `json:"index"`
	InterchangeID  string     `json:"interchangeId,omitempty"`
	Platforms      *Platforms `json:"platforms,omitempty"`
	TimeToNext     int        `json:"timeToNext"`     // seconds to the next station in line order
	DistanceToNext float64    `json:"distanceToNext"` // kilometers to the next station in line order
	Lat            float64    `json:"lat"`
	Lon            float64    `json:"lon"`
}

// Platform returns the boarding platform for travel in d, defaulting to 1.
func (s *Station) Platform(d Direction) int {
	if s.Platforms == nil {
		return 1
	}
	p := s.Platforms.Forward
	if d == Backward {
		p = s.Platforms.Backward
	}
	if p <= 0 {
		return 1
	}
	return p
}

// Line is a named, colored, ordered sequence of stations.
type Line struct {
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Stations []Station `json:"stations"`
}

// Place is a physical station: every platform-level Station sharing an
// InterchangeID (or, without one, a name) belongs to the same Place. Name-only
// Places are a listing aid; routing never treats them as linked.
type Place struct {
	Key        string
	Name       string
	StationIDs []string
	LineKeys   []string
	Colors     []string
	Lat        float64
	Lon        float64
}

// IsInterchange reports whether more than one line serves the place.
func (p *Place) IsInterchange() bool {
	return len(p.LineKeys) > 1
}

// Network is the validated, indexed network model.
type Network struct {
	name       string
	timeZone   string
	lines      []*Line
	linesByKey map[string]*Line
	stations   map[string]*Station
	places     []*Place
	placeOf    map[string]*Place
	bounds     utils.CoordinateBounds
}

// New validates the line definitions and builds a Network. Station LineKey
// and Index are assigned from the position in lines; any values supplied by
// the caller are overwritten.
func New(name string, lines []Line) (*Network, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no lines defined", ErrInvalidNetwork)
	}

	n := &Network{
		name:       name,
		linesByKey: make(map[string]*Line, len(lines)),
		stations:   make(map[string]*Station),
		placeOf:    make(map[string]*Place),
	}

	first := true
	for li := range lines {
		src := lines[li]
		if src.Key == "" {
			return nil, fmt.Errorf("%w: line %d has no key", ErrInvalidNetwork, li)
		}
		if src.Key == InterchangeMarker {
			return nil, fmt.Errorf("%w: line key %q is reserved", ErrInvalidNetwork, src.Key)
		}
		if _, dup := n.linesByKey[src.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate line key %q", ErrInvalidNetwork, src.Key)
		}
		if len(src.Stations) == 0 {
			return nil, fmt.Errorf("%w: line %q has no stations", ErrInvalidNetwork, src.Key)
		}

		line := &Line{
			Key:      src.Key,
			Name:     src.Name,
			Color:    src.Color,
			Stations: make([]Station, len(src.Stations)),
		}
		if line.Name == "" {
			line.Name = src.Key
		}
		copy(line.Stations, src.Stations)

		for i := range line.Stations {
			s := &line.Stations[i]
			if s.ID == "" {
				return nil, fmt.Errorf("%w: station %d on line %q has no id", ErrInvalidNetwork, i, line.Key)
			}
			if _, dup := n.stations[s.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate station id %q", ErrInvalidNetwork, s.ID)
			}
			if s.TimeToNext < 0 {
				return nil, fmt.Errorf("%w: station %q has negative time to next", ErrInvalidNetwork, s.ID)
			}
			if s.DistanceToNext < 0 || math.IsNaN(s.DistanceToNext) || math.IsInf(s.DistanceToNext, 0) {
				return nil, fmt.Errorf("%w: station %q has invalid distance to next", ErrInvalidNetwork, s.ID)
			}
			if s.Platforms != nil {
				p := *s.Platforms
				s.Platforms = &p
			}
			s.LineKey = line.Key
			s.Index = i
			n.stations[s.ID] = s
			n.bounds = n.bounds.Extend(s.Lat, s.Lon, first)
			first = false
		}

		n.lines = append(n.lines, line)
		n.linesByKey[line.Key] = line
	}

	n.buildPlaces()
	return n, nil
}

func placeKey(s *Station) string {
	if s.InterchangeID != "" {
		return "interchange:" + s.InterchangeID
	}
	return "name:" + s.Name
}

func (n *Network) buildPlaces() {
	byKey := make(map[string]*Place)
	for _, line := range n.lines {
		for i := range line.Stations {
			s := &line.Stations[i]
			key := placeKey(s)
			p, ok := byKey[key]
			if !ok {
				p = &Place{Key: key, Name: s.Name, Lat: s.Lat, Lon: s.Lon}
				byKey[key] = p
				n.places = append(n.places, p)
			}
			p.StationIDs = append(p.StationIDs, s.ID)
			if !contains(p.LineKeys, line.Key) {
				p.LineKeys = append(p.LineKeys, line.Key)
				p.Colors = append(p.Colors, line.Color)
			}
			n.placeOf[s.ID] = p
		}
	}

	sort.SliceStable(n.places, func(i, j int) bool {
		return n.places[i].Name < n.places[j].Name
	})
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Name is the human-readable network name.
func (n *Network) Name() string { return n.name }

// TimeZone is the IANA zone the network operates in, if known.
func (n *Network) TimeZone() string { return n.timeZone }

// Station looks up a station by id.
func (n *Network) Station(id string) (*Station, bool) {
	s, ok := n.stations[id]
	return s, ok
}

// Line looks up a line by key.
func (n *Network) Line(key string) (*Line, bool) {
	l, ok := n.linesByKey[key]
	return l, ok
}

// Lines returns the lines in definition order.
func (n *Network) Lines() []*Line {
	out := make([]*Line, len(n.lines))
	copy(out, n.lines)
	return out
}

// Stations returns every station, line by line in index order.
func (n *Network) Stations() []*Station {
	out := make([]*Station, 0, len(n.stations))
	for _, line := range n.lines {
		for i := range line.Stations {
			out = append(out, &line.Stations[i])
		}
	}
	return out
}

// StationCount is the number of line-platform stations.
func (n *Network) StationCount() int { return len(n.stations) }

// Places returns the physical stations sorted by name.
func (n *Network) Places() []*Place {
	out := make([]*Place, len(n.places))
	copy(out, n.places)
	return out
}

// PlaceOf returns the physical station a station id belongs to.
func (n *Network) PlaceOf(id string) (*Place, bool) {
	p, ok := n.placeOf[id]
	return p, ok
}

// SamePlace reports whether two station ids are platforms of one physical
// station. Only a shared InterchangeID links platforms; stations that merely
// share a name are grouped by Places for display but are not the same place.
func (n *Network) SamePlace(a, b string) bool {
	sa, okA := n.stations[a]
	sb, okB := n.stations[b]
	if !okA || !okB {
		return false
	}
	if a == b {
		return true
	}
	return sa.InterchangeID != "" && sa.InterchangeID == sb.InterchangeID
}

// Terminal returns the name of the line's last station in direction d.
func (n *Network) Terminal(lineKey string, d Direction) (string, bool) {
	line, ok := n.linesByKey[lineKey]
	if !ok || len(line.Stations) == 0 {
		return "", false
	}
	if d == Backward {
		return line.Stations[0].Name, true
	}
	return line.Stations[len(line.Stations)-1].Name, true
}

// Bounds is the bounding box of every station.
func (n *Network) Bounds() utils.CoordinateBounds { return n.bounds }
