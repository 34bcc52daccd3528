package database

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrInvalidSource is returned when a source name is not a plain identifier
	ErrInvalidSource = errors.New("invalid source name")

	// ErrInvalidOrderField is returned when an order field is not a plain identifier
	ErrInvalidOrderField = errors.New("invalid order field")

	// ErrUnknownDriver is returned when the configured store driver is not supported
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Direction is the sort direction of a single order term
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// OrderTerm sorts by one field in one direction
type OrderTerm struct {
	Field     string
	Direction Direction
}

// Asc builds an ascending order term
func Asc(field string) OrderTerm {
	return OrderTerm{Field: field, Direction: Ascending}
}

// Desc builds a descending order term
func Desc(field string) OrderTerm {
	return OrderTerm{Field: field, Direction: Descending}
}

// OrderSpec is an ordered list of terms. The first term is the primary key,
// later terms break ties.
type OrderSpec []OrderTerm

// String renders the order in PostgREST form, e.g. "is_done.asc,created_at.desc"
func (o OrderSpec) String() string {
	parts := make([]string, 0, len(o))
	for _, term := range o {
		parts = append(parts, term.Field+"."+term.Direction.String())
	}
	return strings.Join(parts, ",")
}

// RecordStore selects every record of a named collection or view, ordered by
// the given order, and decodes them into dest (a pointer to a slice).
type RecordStore interface {
	FetchCollection(ctx context.Context, source string, order OrderSpec, dest any) error
}

// SortingStore is a RecordStore whose backend applies the order itself.
// Fetch returns its rows exactly as received.
type SortingStore interface {
	RecordStore
	SortsRows() bool
}

// Store is a RecordStore that owns releasable resources
type Store interface {
	RecordStore
	Close() error
}

// Failure is the single error kind a fetch can end with. Network errors,
// backend errors, and decode errors are all normalized into it.
type Failure struct {
	Source  string
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
	Err     error
}

func (f *Failure) Error() string {
	msg := f.Message
	if msg == "" && f.Err != nil {
		msg = f.Err.Error()
	}
	if f.Code != "" {
		return fmt.Sprintf("fetch %s: %s (code %s)", f.Source, msg, f.Code)
	}
	return fmt.Sprintf("fetch %s: %s", f.Source, msg)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// AsFailure normalizes any error into a Failure for source
func AsFailure(source string, err error) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		normalized := *failure
		if normalized.Source == "" {
			normalized.Source = source
		}
		return &normalized
	}
	return &Failure{Source: source, Message: err.Error(), Err: err}
}

// Result holds either the fetched records or the failure that ended the fetch
type Result[T any] struct {
	Records []T
	Failure *Failure
}

// OK reports whether the fetch succeeded
func (r Result[T]) OK() bool {
	return r.Failure == nil
}

// OrEmpty returns the records, or an empty slice when the fetch failed
func (r Result[T]) OrEmpty() []T {
	if r.Failure != nil || r.Records == nil {
		return []T{}
	}
	return r.Records
}

// Fetch selects all records of source in the given order
func Fetch[T any](ctx context.Context, store RecordStore, source string, order OrderSpec) Result[T] {
	if err := ValidateQuery(source, order); err != nil {
		return Result[T]{Failure: AsFailure(source, err)}
	}

	var records []T
	if err := store.FetchCollection(ctx, source, order, &records); err != nil {
		return Result[T]{Failure: AsFailure(source, err)}
	}

	if sorter, ok := store.(SortingStore); !ok || !sorter.SortsRows() {
		SortRecords(records, order)
	}
	if records == nil {
		records = []T{}
	}
	return Result[T]{Records: records}
}

// ValidateQuery checks that source and order fields are plain identifiers.
// They end up in URLs and SQL, so nothing else is accepted.
func ValidateQuery(source string, order OrderSpec) error {
	if !isIdentifier(source) {
		return fmt.Errorf("%w: %q", ErrInvalidSource, source)
	}
	for _, term := range order {
		if !isIdentifier(term.Field) {
			return fmt.Errorf("%w: %q", ErrInvalidOrderField, term.Field)
		}
	}
	return nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// Orderable exposes column values so records can be sorted in memory
type Orderable interface {
	OrderValue(field string) (any, bool)
}

// SortRecords stably sorts records by order. Records that are not Orderable
// keep their backend order.
func SortRecords[T any](records []T, order OrderSpec) {
	if len(order) == 0 || len(records) < 2 {
		return
	}
	slices.SortStableFunc(records, func(a, b T) int {
		return order.Compare(a, b)
	})
}

// Compare orders two records by each term in turn. NULLs, including zero
// times, sort after values when ascending and before them when descending,
// like Postgres.
func (o OrderSpec) Compare(a, b any) int {
	left, ok := a.(Orderable)
	if !ok {
		return 0
	}
	right, ok := b.(Orderable)
	if !ok {
		return 0
	}

	for _, term := range o {
		lv, _ := left.OrderValue(term.Field)
		rv, _ := right.OrderValue(term.Field)
		c := compareValues(lv, rv)
		if term.Direction == Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareValues(a, b any) int {
	a, b = deref(a), deref(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	switch av := a.(type) {
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case int:
		if bv, ok := b.(int); ok {
			return cmpOrdered(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmpOrdered(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmpOrdered(av, bv)
		}
	}
	return 0
}

func cmpOrdered[N int | int64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func deref(v any) any {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return nil
		}
		return *p
	case *bool:
		if p == nil {
			return nil
		}
		return *p
	case *time.Time:
		if p == nil || p.IsZero() {
			return nil
		}
		return *p
	case time.Time:
		if p.IsZero() {
			return nil
		}
	case *int64:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}
