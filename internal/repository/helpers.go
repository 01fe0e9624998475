package repository

import (
	"database/sql"
	"time"
)

const dateLayout = "2006-01-02"

// Scan-side converters. SQLite has no native date or bool types; dates are
// stored as text and bools as 0/1.

func timeFromNullString(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func timeOrNull(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}
