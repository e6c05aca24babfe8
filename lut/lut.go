// Package lut provides a generic key→handler lookup table with uniqueness
// checks and a uniform error taxonomy, used to let independently
// registered hooks answer per-cell-kind queries.
//
// The taxonomy separates three conditions callers must treat differently:
//
//   - ErrNoData:    no handler claimed the key, or a handler explicitly
//     declined ("not mine"). Composable: nested tables propagate it.
//   - ErrHookFail:  a handler produced no result and no explicit reason.
//     A bug signal, distinct from absence.
//   - ErrDuplicate: an attempt to bind a key twice at registration time.
package lut

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for table operations.
var (
	// ErrNoData indicates no handler exists for the key, or the handler
	// declined to answer.
	ErrNoData = errors.New("lut: no data for key")

	// ErrHookFail indicates a handler returned a nil result without an
	// explicit reason.
	ErrHookFail = errors.New("lut: handler returned no result")

	// ErrDuplicate indicates a key was already bound at registration.
	ErrDuplicate = errors.New("lut: handler already registered for key")

	// ErrNilHandler indicates a nil handler was passed to Register.
	ErrNilHandler = errors.New("lut: handler must be a non-nil function")

	// ErrNilKeyFn indicates NewTable was given a nil key extractor.
	ErrNilKeyFn = errors.New("lut: key extractor must be a non-nil function")
)

// Handler answers a query for one key. Returning an error that matches
// ErrNoData signals "not mine" and composes with nested tables; any other
// error, or a nil result with a nil error, is reported as ErrHookFail.
// Panics inside handlers propagate to the caller.
type Handler[D, R any] func(data D) (R, error)

// Table maps keys extracted from query data to handlers.
type Table[K comparable, D, R any] struct {
	label    string
	getKey   func(D) K
	handlers map[K]Handler[D, R]
}

// NewTable constructs a Table using getKey to derive the lookup key from
// query data. label names the table in error messages.
func NewTable[K comparable, D, R any](getKey func(D) K, label string) (*Table[K, D, R], error) {
	if getKey == nil {
		return nil, fmt.Errorf("%w: table %q", ErrNilKeyFn, label)
	}

	return &Table[K, D, R]{
		label:    label,
		getKey:   getKey,
		handlers: make(map[K]Handler[D, R]),
	}, nil
}

// Register binds handler to key.
// Returns ErrNilHandler for a nil handler and ErrDuplicate when the key is
// already bound.
func (t *Table[K, D, R]) Register(key K, handler Handler[D, R]) error {
	if handler == nil {
		return fmt.Errorf("%w: table %q key %v", ErrNilHandler, t.label, key)
	}
	if _, bound := t.handlers[key]; bound {
		return fmt.Errorf("%w: table %q key %v", ErrDuplicate, t.label, key)
	}
	t.handlers[key] = handler

	return nil
}

// Query extracts the key from data and runs the bound handler.
//
//   - No handler for the key: (zero, ErrNoData).
//   - Handler error matching ErrNoData: (zero, ErrNoData) — composability.
//   - Any other handler error, or a nil result with a nil error:
//     (zero, ErrHookFail) — bug signal.
//   - Otherwise: (result, nil).
func (t *Table[K, D, R]) Query(data D) (R, error) {
	var zero R
	key := t.getKey(data)
	handler, ok := t.handlers[key]
	if !ok {
		return zero, ErrNoData
	}
	result, err := handler(data)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return zero, ErrNoData
		}
		return zero, fmt.Errorf("%w: table %q key %v: %v", ErrHookFail, t.label, key, err)
	}
	if isNil(result) {
		return zero, fmt.Errorf("%w: table %q key %v: nil result, nil error", ErrHookFail, t.label, key)
	}

	return result, nil
}

// Has reports whether a handler is bound for key.
func (t *Table[K, D, R]) Has(key K) bool {
	_, ok := t.handlers[key]
	return ok
}

// Len reports the number of bound handlers.
func (t *Table[K, D, R]) Len() int { return len(t.handlers) }

// isNil reports whether v is a nil value of a nil-able kind.
// Needed because a typed nil map or pointer stored in an interface does
// not compare equal to untyped nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
