package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func NullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// StringPtr is the inverse of NullString.
func StringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// TimePtr is the inverse of NullTime. Times come back in UTC.
func TimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

// TextArray encodes values as a text[] parameter. An empty filter becomes
// NULL so queries can write "$n::text[] IS NULL OR col = ANY($n)".
func TextArray[T ~string](values []T) any {
	if len(values) == 0 {
		return nil
	}
	out := make(pq.StringArray, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Strings converts a scanned text[] into a non-nil slice.
func Strings(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}
