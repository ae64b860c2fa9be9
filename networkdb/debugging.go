package networkdb

import (
	"fmt"
	"log/slog"

	"metroplanner.transit.org/internal/logging"
)

// TableCounts returns row counts for the known tables that exist.
func (c *Client) TableCounts() (map[string]int, error) {
	rows, err := c.DB.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, fmt.Errorf("failed to query table names: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows,
		slog.Default().With(slog.String("component", "debugging")),
		"database_rows")

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate table names: %w", err)
	}

	tableCountQueries := map[string]string{
		"network_meta": "SELECT COUNT(*) FROM network_meta",
		"metro_lines":  "SELECT COUNT(*) FROM metro_lines",
		"stations":     "SELECT COUNT(*) FROM stations",
		"journey_log":  "SELECT COUNT(*) FROM journey_log",
	}

	counts := make(map[string]int)
	for _, table := range tables {
		query, ok := tableCountQueries[table]
		if !ok {
			continue
		}

		var count int
		if err := c.DB.QueryRow(query).Scan(&count); err != nil {
			return nil, err
		}
		counts[table] = count
	}

	return counts, nil
}
