package store

import (
	"database/sql"
	"fmt"
	"time"
)

// HistoryItem is one remembered search: the query the user typed and the
// row they ultimately selected for it.
type HistoryItem struct {
	Query     string
	Selection string
	Uses      int
	LastUsed  time.Time
}

// RecordUse remembers that query led to selection. Repeating a query bumps
// its use count and timestamp and replaces the remembered selection.
func RecordUse(db *sql.DB, query, selection string) error {
	stmt := `
		INSERT INTO history (query, selection, uses, last_used)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(query) DO UPDATE SET
			selection = excluded.selection,
			uses = uses + 1,
			last_used = CURRENT_TIMESTAMP
	`
	if _, err := db.Exec(stmt, query, selection); err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

// GetHistory returns every remembered search, most recent first.
func GetHistory(db *sql.DB) ([]HistoryItem, error) {
	rows, err := db.Query(`SELECT query, selection, uses, last_used FROM history ORDER BY last_used DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var items []HistoryItem
	for rows.Next() {
		var item HistoryItem
		if err := rows.Scan(&item.Query, &item.Selection, &item.Uses, &item.LastUsed); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RecentQueries returns up to limit past queries, most recent first, for
// the suggestion line.
func RecentQueries(db *sql.DB, limit int) ([]string, error) {
	rows, err := db.Query(`SELECT query FROM history ORDER BY last_used DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent queries: %w", err)
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}
