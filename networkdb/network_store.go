package networkdb

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"metroplanner.transit.org/internal/logging"
	"metroplanner.transit.org/internal/network"
)

// ErrNoNetwork is returned by LoadNetwork when nothing has been saved yet.
var ErrNoNetwork = errors.New("no network stored")

// NetworkHash fingerprints a network by its JSON document.
func NetworkHash(n *network.Network) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(n.ToDocument()); err != nil {
		return "", fmt.Errorf("error encoding network: %w", err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

// SaveNetwork replaces the stored network with n. It reports false without
// writing when the stored network already has the same hash.
func (c *Client) SaveNetwork(ctx context.Context, n *network.Network, source string) (bool, error) {
	startTime := time.Now()

	hash, err := NetworkHash(n)
	if err != nil {
		return false, err
	}

	var existing string
	err = c.DB.QueryRowContext(ctx, `SELECT file_hash FROM network_meta WHERE id = 1`).Scan(&existing)
	switch {
	case err == nil && existing == hash:
		logging.LogOperation(c.logger, "network_unchanged_skipping_import",
			slog.String("hash", hash[:8]))
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("error checking network metadata: %w", err)
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "save_network")

	for _, stmt := range []string{`DELETE FROM stations`, `DELETE FROM metro_lines`, `DELETE FROM network_meta`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return false, fmt.Errorf("error clearing network tables: %w", err)
		}
	}

	lineStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO metro_lines (line_key, name, color, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(lineStmt, c.logger, "line_statement")

	stationStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stations (
			station_id, line_key, station_index, name, interchange_id,
			platform_forward, platform_backward, time_to_next, distance_to_next, lat, lon
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(stationStmt, c.logger, "station_statement")

	stationCount := 0
	for pos, line := range n.Lines() {
		if _, err := lineStmt.ExecContext(ctx, line.Key, line.Name, toNullString(line.Color), pos); err != nil {
			return false, fmt.Errorf("error inserting line %s: %w", line.Key, err)
		}
		for _, s := range line.Stations {
			var forward, backward int64
			if s.Platforms != nil {
				forward, backward = int64(s.Platforms.Forward), int64(s.Platforms.Backward)
			}
			_, err := stationStmt.ExecContext(ctx,
				s.ID, line.Key, s.Index, s.Name, toNullString(s.InterchangeID),
				toNullInt64(forward), toNullInt64(backward), s.TimeToNext, s.DistanceToNext, s.Lat, s.Lon)
			if err != nil {
				return false, fmt.Errorf("error inserting station %s: %w", s.ID, err)
			}
			stationCount++
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO network_meta (id, name, time_zone, file_hash, source, imported_at)
		VALUES (1, ?, ?, ?, ?, ?)`,
		n.Name(), toNullString(n.TimeZone()), hash, source, time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("error inserting network metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("error committing transaction: %w", err)
	}

	logging.LogOperation(c.logger, "network_saved",
		slog.String("source", source),
		slog.Int("lines", len(n.Lines())),
		slog.Int("stations", stationCount),
		slog.Duration("duration", time.Since(startTime)))

	return true, nil
}

// LoadNetwork rebuilds the stored network. It returns ErrNoNetwork when the
// database is empty.
func (c *Client) LoadNetwork(ctx context.Context) (*network.Network, error) {
	var doc network.Document
	var timeZone sql.NullString
	err := c.DB.QueryRowContext(ctx, `SELECT name, time_zone FROM network_meta WHERE id = 1`).Scan(&doc.Name, &timeZone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoNetwork
	}
	if err != nil {
		return nil, fmt.Errorf("error reading network metadata: %w", err)
	}
	doc.TimeZone = timeZone.String

	rows, err := c.DB.QueryContext(ctx, `
		SELECT l.line_key, l.name, l.color,
		       s.station_id, s.name, s.interchange_id, s.platform_forward, s.platform_backward,
		       s.time_to_next, s.distance_to_next, s.lat, s.lon
		FROM metro_lines l
		JOIN stations s ON s.line_key = l.line_key
		ORDER BY l.position, s.station_index`)
	if err != nil {
		return nil, fmt.Errorf("error querying stations: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "station_rows")

	for rows.Next() {
		var (
			lineKey, lineName    string
			color, interchangeID sql.NullString
			forward, backward    sql.NullInt64
			s                    network.Station
		)
		if err := rows.Scan(&lineKey, &lineName, &color,
			&s.ID, &s.Name, &interchangeID, &forward, &backward,
			&s.TimeToNext, &s.DistanceToNext, &s.Lat, &s.Lon); err != nil {
			return nil, fmt.Errorf("error scanning station: %w", err)
		}
		s.InterchangeID = interchangeID.String
		if forward.Valid || backward.Valid {
			s.Platforms = &network.Platforms{Forward: int(forward.Int64), Backward: int(backward.Int64)}
		}

		if len(doc.Lines) == 0 || doc.Lines[len(doc.Lines)-1].Key != lineKey {
			doc.Lines = append(doc.Lines, network.Line{Key: lineKey, Name: lineName, Color: color.String})
		}
		last := &doc.Lines[len(doc.Lines)-1]
		last.Stations = append(last.Stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stations: %w", err)
	}

	return network.FromDocument(doc)
}
