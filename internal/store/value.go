package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Fallback reasons reported to OnFallback.
const (
	ReasonMissing = "missing"
	ReasonCorrupt = "corrupt"
	ReasonBackend = "backend"
	ReasonCoerced = "coerced"
)

// Value is one typed state key. Load never fails: a missing, unreadable
// or corrupt value is replaced by the key's default.
//
// Why return a default instead of an error?
//   - A corrupt key is not something the user can act on. Refusing to
//     start would lock them out of every other key too.
//   - The fallback is logged and counted (store_fallbacks_total), so it
//     is still visible to whoever runs the service.
//   - Nothing is written back on load. The stored bytes stay on disk
//     until the next save replaces them.
type Value[T any] struct {
	kv         KV
	key        string
	def        func() T
	logger     *zap.Logger
	onFallback func(key, reason string)
}

type ValueOption func(*valueOptions)

type valueOptions struct {
	onFallback func(key, reason string)
}

// OnFallback registers a hook called whenever Load returns the default,
// and whenever LoadList repairs records with reason ReasonCoerced.
func OnFallback(fn func(key, reason string)) ValueOption {
	return func(o *valueOptions) { o.onFallback = fn }
}

// NewValue binds key in kv to type T. def must return a fresh value on
// every call.
func NewValue[T any](kv KV, key string, def func() T, logger *zap.Logger, opts ...ValueOption) *Value[T] {
	var o valueOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Value[T]{
		kv:         kv,
		key:        key,
		def:        def,
		logger:     logger,
		onFallback: o.onFallback,
	}
}

// Load reads and decodes the stored value. It decodes into a fresh T, so
// a value that fails halfway never leaks partial data to the caller.
func (v *Value[T]) Load(ctx context.Context) T {
	raw, reason, err := v.read(ctx)
	if reason != "" {
		return v.fallback(reason, err)
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return v.fallback(ReasonCorrupt, err)
	}
	return out
}

// LoadList is Load for collections, decoding one record at a time. A
// field of the wrong type is dropped from its record and reads back as
// the zero value; a record that is not a JSON object is skipped. Only a
// value that is not a JSON array falls back to the default.
func LoadList[E any](ctx context.Context, v *Value[[]E]) []E {
	raw, reason, err := v.read(ctx)
	if reason != "" {
		return v.fallback(reason, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return v.fallback(ReasonCorrupt, err)
	}

	out := make([]E, 0, len(records))
	var repaired, skipped int
	for _, rec := range records {
		e, clean, ok := decodeRecord[E](rec)
		switch {
		case !ok:
			skipped++
			continue
		case !clean:
			repaired++
		}
		out = append(out, e)
	}

	if repaired > 0 || skipped > 0 {
		v.logger.Warn("state key had malformed records",
			zap.String("key", v.key),
			zap.Int("repaired", repaired),
			zap.Int("skipped", skipped),
		)
		if v.onFallback != nil {
			v.onFallback(v.key, ReasonCoerced)
		}
	}
	return out
}

// decodeRecord decodes one collection entry. clean is false when fields
// had to be dropped; ok is false when nothing usable was left.
func decodeRecord[E any](rec json.RawMessage) (e E, clean, ok bool) {
	if bytes.Equal(bytes.TrimSpace(rec), []byte("null")) {
		return e, false, false
	}
	if err := json.Unmarshal(rec, &e); err == nil {
		return e, true, true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil {
		return e, false, false
	}
	for name, val := range fields {
		one, err := json.Marshal(map[string]json.RawMessage{name: val})
		if err != nil {
			delete(fields, name)
			continue
		}
		var scratch E
		if json.Unmarshal(one, &scratch) != nil {
			delete(fields, name)
		}
	}

	kept, err := json.Marshal(fields)
	if err != nil {
		return e, false, false
	}
	var out E
	if err := json.Unmarshal(kept, &out); err != nil {
		return e, false, false
	}
	return out, false, true
}

// read returns the trimmed stored bytes, or the fallback reason.
func (v *Value[T]) read(ctx context.Context) ([]byte, string, error) {
	raw, err := v.kv.Get(ctx, v.key)
	if errors.Is(err, ErrNotFound) {
		return nil, ReasonMissing, nil
	}
	if err != nil {
		return nil, ReasonBackend, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ReasonMissing, nil
	}
	return trimmed, "", nil
}

// Save encodes and writes the full value.
func (v *Value[T]) Save(ctx context.Context, val T) error {
	b, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("encode %s: %w", v.key, err)
	}
	if err := v.kv.Set(ctx, v.key, b); err != nil {
		return fmt.Errorf("save %s: %w", v.key, err)
	}
	return nil
}

func (v *Value[T]) fallback(reason string, err error) T {
	switch reason {
	case ReasonMissing:
		v.logger.Debug("state key missing, using default", zap.String("key", v.key))
	default:
		v.logger.Warn("state key unreadable, using default",
			zap.String("key", v.key),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
	if v.onFallback != nil {
		v.onFallback(v.key, reason)
	}
	return v.def()
}
