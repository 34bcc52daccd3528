package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts covers timestamptz and timestamp columns as PostgREST and
// SQL drivers render them. Layouts without an offset are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a created_at style column. The zero value is SQL NULL.
// A value decoded from JSON is written back in the form it was received.
type Timestamp struct {
	time.Time
	raw string
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp reads a Postgres timestamp with or without a zone offset
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// Valid reports whether the column was not NULL
func (ts Timestamp) Valid() bool {
	return !ts.Time.IsZero()
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}

	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(value)
	if err != nil {
		return err
	}
	*ts = Timestamp{Time: parsed, raw: value}
	return nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.Valid() {
		return []byte("null"), nil
	}
	if ts.raw != "" {
		return json.Marshal(ts.raw)
	}
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}

// Scan implements sql.Scanner
func (ts *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*ts = Timestamp{}
	case time.Time:
		*ts = Timestamp{Time: v}
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		*ts = Timestamp{Time: parsed}
	case []byte:
		return ts.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", value)
	}
	return nil
}

// Value implements driver.Valuer
func (ts Timestamp) Value() (driver.Value, error) {
	if !ts.Valid() {
		return nil, nil
	}
	return ts.Time, nil
}

// orderValue exposes the timestamp to the in-memory sort, NULL as nil
func (ts Timestamp) orderValue() any {
	if !ts.Valid() {
		return nil
	}
	return ts.Time
}

// RecordID is a primary or foreign key. Supabase tables use uuid or bigint
// keys, both are carried as text.
type RecordID string

func (id RecordID) String() string {
	return string(id)
}

func (id *RecordID) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return err
	}
	switch v := value.(type) {
	case nil:
		*id = ""
	case string:
		*id = RecordID(v)
	case json.Number:
		*id = RecordID(v.String())
	default:
		return fmt.Errorf("record id must be a string or number, got %s", data)
	}
	return nil
}

// Scan implements sql.Scanner
func (id *RecordID) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*id = ""
	case string:
		*id = RecordID(v)
	case []byte:
		*id = RecordID(v)
	case int64:
		*id = RecordID(strconv.FormatInt(v, 10))
	default:
		return fmt.Errorf("cannot scan %T into RecordID", value)
	}
	return nil
}

// Value implements driver.Valuer
func (id RecordID) Value() (driver.Value, error) {
	return string(id), nil
}

func recordIDValue(id *RecordID) any {
	if id == nil {
		return nil
	}
	return string(*id)
}
