package networkdb

import (
	"context"
	"fmt"
	"time"

	"metroplanner.transit.org/internal/logging"
)

// JourneyRecord is one planned journey in the query log.
type JourneyRecord struct {
	ID            int64
	RequestID     string
	FromStation   string
	ToStation     string
	TicketType    string
	TotalSeconds  int
	DistanceKm    float64
	FinalFare     int
	Interchanges  int
	DepartureTime time.Time
	PlannedAt     time.Time
}

// RecordJourney appends r to the journey log and returns its id.
func (c *Client) RecordJourney(ctx context.Context, r JourneyRecord) (int64, error) {
	res, err := c.DB.ExecContext(ctx, `
		INSERT INTO journey_log (
			request_id, from_station, to_station, ticket_type, total_seconds,
			distance_km, final_fare, interchanges, departure_time, planned_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		toNullString(r.RequestID), r.FromStation, r.ToStation, r.TicketType, r.TotalSeconds,
		r.DistanceKm, r.FinalFare, r.Interchanges, r.DepartureTime.Unix(), r.PlannedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("error inserting journey: %w", err)
	}
	return res.LastInsertId()
}

// RecentJourneys returns up to limit journeys, newest first.
func (c *Client) RecentJourneys(ctx context.Context, limit int) ([]JourneyRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.DB.QueryContext(ctx, `
		SELECT id, COALESCE(request_id, ''), from_station, to_station, ticket_type, total_seconds,
		       distance_km, final_fare, interchanges, departure_time, planned_at
		FROM journey_log
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying journeys: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "journey_rows")

	var records []JourneyRecord
	for rows.Next() {
		var r JourneyRecord
		var departure, planned int64
		if err := rows.Scan(&r.ID, &r.RequestID, &r.FromStation, &r.ToStation, &r.TicketType, &r.TotalSeconds,
			&r.DistanceKm, &r.FinalFare, &r.Interchanges, &departure, &planned); err != nil {
			return nil, fmt.Errorf("error scanning journey: %w", err)
		}
		r.DepartureTime = time.Unix(departure, 0)
		r.PlannedAt = time.UnixMilli(planned)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journeys: %w", err)
	}
	return records, nil
}
