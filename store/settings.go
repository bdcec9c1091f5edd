package store

import (
	"database/sql"
	"fmt"
	"strconv"
)

// GetSetting retrieves a setting value by key. A missing key yields "".
func GetSetting(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting sets a setting value by key.
func SetSetting(db *sql.DB, key, value string) error {
	stmt := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := db.Exec(stmt, key, value); err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

// GetBoolSetting reads a boolean setting, falling back to def when the key
// is missing or unparsable. Engine options (exact, case_sensitive) live
// here so they survive restarts.
func GetBoolSetting(db *sql.DB, key string, def bool) bool {
	v, err := GetSetting(db, key)
	if err != nil || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// GetIntSetting reads an integer setting, falling back to def when the key
// is missing or unparsable.
func GetIntSetting(db *sql.DB, key string, def int) int {
	v, err := GetSetting(db, key)
	if err != nil || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
