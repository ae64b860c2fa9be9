package routing

import (
	"time"

	"metroplanner.transit.org/internal/network"
)

// DefaultDwellSeconds is how long a train waits at an intermediate station.
const DefaultDwellSeconds = 30

// TimelineOptions tunes BuildTimeline. Zero values select the defaults.
type TimelineOptions struct {
	DwellSeconds       int
	InterchangeSeconds int
}

// TimelineEntry is one stop of a journey with its estimated clock times.
// Offsets are seconds after the journey's departure.
type TimelineEntry struct {
	StationID       string
	Name            string
	LineKey         string
	Color           string
	Platform        int
	ArrivalOffset   int
	DepartureOffset int
	Arrival         time.Time
	Departure       time.Time
	Interchange     bool

	interchangeID string
}

// BuildTimeline lays the journey's stations on a clock. The two platforms of an
// interchange collapse into a single entry that carries the next Part's line
// and departs after the interchange walk.
func BuildTimeline(j *Journey, opts TimelineOptions) []TimelineEntry {
	if j == nil || len(j.Parts) == 0 {
		return nil
	}
	dwell := opts.DwellSeconds
	if dwell < 0 {
		dwell = 0
	} else if dwell == 0 {
		dwell = DefaultDwellSeconds
	}
	walk := opts.InterchangeSeconds
	if walk <= 0 {
		walk = DefaultInterchangeSeconds
	}

	var entries []TimelineEntry
	offset := 0
	for pi, part := range j.Parts {
		for si, s := range part.Stations {
			if si == 0 && pi > 0 && len(entries) > 0 {
				last := &entries[len(entries)-1]
				if samePlatformGroup(last, s) {
					last.Interchange = true
					last.LineKey = part.LineKey
					last.Color = part.Color
					last.Platform = part.StartPlatform
					last.DepartureOffset = last.ArrivalOffset + walk
					offset = last.DepartureOffset
					if si < len(part.Stations)-1 {
						offset += hopSeconds(s, part.Stations[si+1])
					}
					continue
				}
			}

			e := TimelineEntry{
				StationID:       s.ID,
				Name:            s.Name,
				LineKey:         part.LineKey,
				Color:           part.Color,
				ArrivalOffset:   offset,
				DepartureOffset: offset,
				interchangeID:   s.InterchangeID,
			}
			if si == 0 {
				e.Platform = part.StartPlatform
			}
			isFirst := pi == 0 && si == 0
			isLast := pi == len(j.Parts)-1 && si == len(part.Stations)-1
			if !isFirst && !isLast {
				e.DepartureOffset += dwell
			}
			entries = append(entries, e)

			offset = e.DepartureOffset
			if si < len(part.Stations)-1 {
				offset += hopSeconds(s, part.Stations[si+1])
			}
		}
	}

	for i := range entries {
		entries[i].Arrival = j.DepartureTime.Add(time.Duration(entries[i].ArrivalOffset) * time.Second)
		entries[i].Departure = j.DepartureTime.Add(time.Duration(entries[i].DepartureOffset) * time.Second)
	}
	return entries
}

func samePlatformGroup(last *TimelineEntry, s *network.Station) bool {
	if last.StationID == s.ID {
		return true
	}
	return last.interchangeID != "" && last.interchangeID == s.InterchangeID
}

// hopSeconds is the running time between adjacent stations of one line.
func hopSeconds(from, to *network.Station) int {
	if to.Index > from.Index {
		return from.TimeToNext
	}
	return to.TimeToNext
}
