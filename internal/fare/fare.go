// Package fare prices a journey from its distance, the time of travel and the
// ticket used. The Engine is immutable once built and safe for concurrent use.
package fare

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidFareInput is returned for unusable distances or ticket types.
var ErrInvalidFareInput = errors.New("invalid fare input")

// TicketType is the payment medium. Only TOKEN pays the undiscounted fare.
type TicketType string

const (
	Token TicketType = "TOKEN"
	Card  TicketType = "CARD"
	QR    TicketType = "QR"
	NCMC  TicketType = "NCMC"
)

// TicketTypes lists every accepted ticket type.
var TicketTypes = []TicketType{Token, Card, QR, NCMC}

// ParseTicketType accepts a case-insensitive ticket name. An empty string
// means Token.
func ParseTicketType(s string) (TicketType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Token, nil
	}
	for _, t := range TicketTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown ticket type %q", ErrInvalidFareInput, s)
}

const (
	StandardDiscountPercent = 5
	OffPeakDiscountPercent  = 10
)

// Slab is a distance band priced at Fare. A distance falls in the first slab
// whose MaxKm is at least the distance.
type Slab struct {
	MaxKm float64
	Fare  int
}

// Slabs is the fare table, ascending by MaxKm. Distances beyond the last
// bound pay MaxFare.
var Slabs = []Slab{
	{MaxKm: 2, Fare: 10},
	{MaxKm: 4, Fare: 20},
	{MaxKm: 6, Fare: 30},
	{MaxKm: 8, Fare: 40},
	{MaxKm: 10, Fare: 50},
	{MaxKm: 15, Fare: 60},
	{MaxKm: 20, Fare: 70},
	{MaxKm: 25, Fare: 80},
}

const MaxFare = 90

// Holiday is a fixed month/day observed every year.
type Holiday struct {
	Month time.Month
	Day   int
}

// DefaultHolidays are the national holidays that price as off-peak.
var DefaultHolidays = []Holiday{
	{Month: time.January, Day: 26},
	{Month: time.August, Day: 15},
	{Month: time.October, Day: 2},
}

// Breakdown is the priced result for one journey.
type Breakdown struct {
	DistanceKm      float64    `json:"distanceKm"`
	BaseFare        int        `json:"baseFare"`
	FinalFare       int        `json:"finalFare"`
	AppliedDiscount int        `json:"appliedDiscount"`
	DiscountPercent int        `json:"discountPercent"`
	Ticket          TicketType `json:"ticketType"`
	OffPeak         bool       `json:"offPeak"`
	Holiday         bool       `json:"holiday"`
}

// Engine applies the slab table and the discount rules. A nil Location
// evaluates time-of-day rules in the travel time's own location.
type Engine struct {
	Holidays []Holiday
	Location *time.Location
}

// NewEngine returns an Engine with the default holidays evaluated in loc.
func NewEngine(loc *time.Location) *Engine {
	h := make([]Holiday, len(DefaultHolidays))
	copy(h, DefaultHolidays)
	return &Engine{Holidays: h, Location: loc}
}

// BaseFare returns the slab fare for a distance.
func BaseFare(distanceKm float64) int {
	for _, s := range Slabs {
		if distanceKm <= s.MaxKm {
			return s.Fare
		}
	}
	return MaxFare
}

// Compute prices distanceKm travelled at travelTime with ticket.
func (e *Engine) Compute(distanceKm float64, travelTime time.Time, ticket TicketType) (Breakdown, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return Breakdown{}, fmt.Errorf("%w: distance %v", ErrInvalidFareInput, distanceKm)
	}
	ticket, err := ParseTicketType(string(ticket))
	if err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		DistanceKm: distanceKm,
		BaseFare:   BaseFare(distanceKm),
		Ticket:     ticket,
		OffPeak:    e.IsOffPeak(travelTime),
		Holiday:    e.IsHoliday(travelTime),
	}

	if ticket != Token {
		b.DiscountPercent = StandardDiscountPercent
		if b.OffPeak || b.Holiday {
			b.DiscountPercent = OffPeakDiscountPercent
		}
	}

	b.FinalFare = (b.BaseFare*(100-b.DiscountPercent) + 50) / 100
	b.AppliedDiscount = b.BaseFare - b.FinalFare
	return b, nil
}

func (e *Engine) local(t time.Time) time.Time {
	if e != nil && e.Location != nil {
		return t.In(e.Location)
	}
	return t
}

// IsOffPeak is true all of Sunday, and before 08:00, from 12:00 to 16:00 and
// from 21:00 on other days.
func (e *Engine) IsOffPeak(t time.Time) bool {
	t = e.local(t)
	if t.Weekday() == time.Sunday {
		return true
	}
	h := t.Hour()
	return h < 8 || (h >= 12 && h < 16) || h >= 21
}

// IsHoliday reports whether t falls on one of the engine's holidays.
func (e *Engine) IsHoliday(t time.Time) bool {
	if e == nil {
		return false
	}
	t = e.local(t)
	for _, h := range e.Holidays {
		if t.Month() == h.Month && t.Day() == h.Day {
			return true
		}
	}
	return false
}
