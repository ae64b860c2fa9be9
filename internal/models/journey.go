package models

import (
	"math"

	"metroplanner.transit.org/internal/fare"
	"metroplanner.transit.org/internal/network"
	"metroplanner.transit.org/internal/routing"
)

type FareModel struct {
	DistanceKm      float64 `json:"distanceKm"`
	BaseFare        int     `json:"baseFare"`
	FinalFare       int     `json:"finalFare"`
	AppliedDiscount int     `json:"appliedDiscount"`
	DiscountPercent int     `json:"discountPercent"`
	TicketType      string  `json:"ticketType"`
	OffPeak         bool    `json:"offPeak"`
	Holiday         bool    `json:"holiday"`
}

func NewFareModel(b fare.Breakdown) FareModel {
	return FareModel{
		DistanceKm:      b.DistanceKm,
		BaseFare:        b.BaseFare,
		FinalFare:       b.FinalFare,
		AppliedDiscount: b.AppliedDiscount,
		DiscountPercent: b.DiscountPercent,
		TicketType:      string(b.Ticket),
		OffPeak:         b.OffPeak,
		Holiday:         b.Holiday,
	}
}

type PartModel struct {
	LineKey        string         `json:"lineKey"`
	LineName       string         `json:"lineName"`
	Color          string         `json:"color"`
	StartPlatform  int            `json:"startPlatform"`
	Direction      string         `json:"direction"`
	DirectionLabel string         `json:"directionLabel"`
	Stations       []StationModel `json:"stations"`
}

// TimelineEntryModel carries both offsets from departure and absolute times
// in Unix milliseconds.
type TimelineEntryModel struct {
	StationID       string `json:"stationId"`
	Name            string `json:"name"`
	LineKey         string `json:"lineKey"`
	Color           string `json:"color"`
	Platform        int    `json:"platform,omitempty"`
	ArrivalOffset   int    `json:"arrivalOffset"`
	DepartureOffset int    `json:"departureOffset"`
	ArrivalTime     int64  `json:"arrivalTime"`
	DepartureTime   int64  `json:"departureTime"`
	Interchange     bool   `json:"interchange"`
}

type JourneyModel struct {
	StartStationID    string               `json:"startStationId"`
	EndStationID      string               `json:"endStationId"`
	TotalTimeSeconds  int                  `json:"totalTimeSeconds"`
	TotalTimeMinutes  int                  `json:"totalTimeMinutes"`
	TotalDistanceKm   float64              `json:"totalDistanceKm"`
	Interchanges      int                  `json:"interchanges"`
	DepartureTime     int64                `json:"departureTime"`
	ArrivalTime       int64                `json:"arrivalTime"`
	ReadableDeparture string               `json:"readableDeparture"`
	ReadableArrival   string               `json:"readableArrival"`
	Fare              FareModel            `json:"fare"`
	Parts             []PartModel          `json:"parts"`
	Timeline          []TimelineEntryModel `json:"timeline"`
	EncodedPolyline   string               `json:"encodedPolyline"`
}

// NewJourneyModel flattens a planned journey for the API and collects the
// lines it rides into references.
func NewJourneyModel(n *network.Network, j *routing.Journey) (JourneyModel, ReferencesModel) {
	refs := NewEmptyReferences()
	m := JourneyModel{
		StartStationID:    j.StartStationID,
		EndStationID:      j.EndStationID,
		TotalTimeSeconds:  j.TotalTimeSeconds,
		TotalTimeMinutes:  int(math.Ceil(float64(j.TotalTimeSeconds) / 60)),
		TotalDistanceKm:   j.TotalDistanceKm,
		Interchanges:      j.Interchanges,
		DepartureTime:     j.DepartureTime.UnixMilli(),
		ArrivalTime:       j.ArrivalTime.UnixMilli(),
		ReadableDeparture: j.DepartureTime.Format("15:04"),
		ReadableArrival:   j.ArrivalTime.Format("15:04"),
		Fare:              NewFareModel(j.Fare),
		Parts:             make([]PartModel, 0, len(j.Parts)),
		Timeline:          make([]TimelineEntryModel, 0, len(j.Timeline)),
		EncodedPolyline:   j.EncodedPath,
	}

	for _, part := range j.Parts {
		pm := PartModel{
			LineKey:        part.LineKey,
			LineName:       part.LineName,
			Color:          part.Color,
			StartPlatform:  part.StartPlatform,
			Direction:      part.Direction.String(),
			DirectionLabel: part.DirectionLabel,
			Stations:       make([]StationModel, 0, len(part.Stations)),
		}
		for _, s := range part.Stations {
			pm.Stations = append(pm.Stations, NewStationModel(n, s))
		}
		m.Parts = append(m.Parts, pm)

		line, _ := n.Line(part.LineKey)
		refs.AddLine(line)
	}

	for _, e := range j.Timeline {
		m.Timeline = append(m.Timeline, TimelineEntryModel{
			StationID:       e.StationID,
			Name:            e.Name,
			LineKey:         e.LineKey,
			Color:           e.Color,
			Platform:        e.Platform,
			ArrivalOffset:   e.ArrivalOffset,
			DepartureOffset: e.DepartureOffset,
			ArrivalTime:     e.Arrival.UnixMilli(),
			DepartureTime:   e.Departure.UnixMilli(),
			Interchange:     e.Interchange,
		})
	}

	return m, refs
}
