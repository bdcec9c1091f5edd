package store

import (
	"database/sql"
	"fmt"
)

// Scopes are named, user-curated candidate lists. Loading a scope replaces
// the candidate set, so a search can run over "@work" or "@dotfiles"
// instead of the current directory.

// AddScopeEntry adds one entry to a scope, creating the scope implicitly.
func AddScopeEntry(db *sql.DB, scope, entry string) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO scopes (name, entry) VALUES (?, ?)`, scope, entry)
	if err != nil {
		return fmt.Errorf("failed to add entry to scope: %w", err)
	}
	return nil
}

// ScopeEntries returns a scope's entries in insertion order.
func ScopeEntries(db *sql.DB, scope string) ([]string, error) {
	rows, err := db.Query(`SELECT entry FROM scopes WHERE name = ? ORDER BY id`, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to get scope entries: %w", err)
	}
	defer rows.Close()

	var entries []string
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListScopes returns the names of all scopes.
func ListScopes(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT name FROM scopes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// RemoveScopeEntry removes one entry from a scope.
func RemoveScopeEntry(db *sql.DB, scope, entry string) error {
	_, err := db.Exec(`DELETE FROM scopes WHERE name = ? AND entry = ?`, scope, entry)
	if err != nil {
		return fmt.Errorf("failed to remove entry from scope: %w", err)
	}
	return nil
}
