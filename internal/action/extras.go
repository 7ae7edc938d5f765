package action

import (
	"fmt"
	"sort"

	"github.com/danmuck/locuslink/internal/protocol/wire"
)

const (
	extraString  uint8 = 1
	extraBool    uint8 = 2
	extraInt32   uint8 = 3
	extraInt64   uint8 = 4
	extraFloat64 uint8 = 5
)

// Extras is a string -> scalar mapping. Only string, bool, int32, int64
// and float64 values can be stored. The zero value is empty and usable.
type Extras struct {
	values map[string]any
}

func (e *Extras) put(key string, v any) {
	if e.values == nil {
		e.values = make(map[string]any)
	}
	e.values[key] = v
}

func (e *Extras) PutString(key, v string)      { e.put(key, v) }
func (e *Extras) PutBool(key string, v bool)   { e.put(key, v) }
func (e *Extras) PutInt32(key string, v int32) { e.put(key, v) }
func (e *Extras) PutInt64(key string, v int64) { e.put(key, v) }

func (e *Extras) PutFloat64(key string, v float64) { e.put(key, v) }

// Put stores v when it is one of the supported scalar types.
func (e *Extras) Put(key string, v any) error {
	switch v.(type) {
	case string, bool, int32, int64, float64:
		e.put(key, v)
		return nil
	default:
		return fmt.Errorf("%w: extra %q has type %T", ErrInvalidArgument, key, v)
	}
}

func (e Extras) Len() int { return len(e.values) }

func (e Extras) Has(key string) bool {
	_, ok := e.values[key]
	return ok
}

func (e Extras) Get(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

func (e Extras) String(key string) (string, bool) {
	v, ok := e.values[key].(string)
	return v, ok
}

func (e Extras) Bool(key string) (bool, bool) {
	v, ok := e.values[key].(bool)
	return v, ok
}

func (e Extras) Int32(key string) (int32, bool) {
	v, ok := e.values[key].(int32)
	return v, ok
}

func (e Extras) Int64(key string) (int64, bool) {
	v, ok := e.values[key].(int64)
	return v, ok
}

func (e Extras) Float64(key string) (float64, bool) {
	v, ok := e.values[key].(float64)
	return v, ok
}

// Keys returns the extra keys in sorted order.
func (e Extras) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the stored values.
func (e Extras) Map() map[string]any {
	out := make(map[string]any, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

func (e Extras) write(w *wire.Writer) {
	keys := e.Keys()
	w.Int32(int32(len(keys)))
	for _, k := range keys {
		w.Str(k)
		switch v := e.values[k].(type) {
		case string:
			w.Uint8(extraString)
			w.Str(v)
		case bool:
			w.Uint8(extraBool)
			w.Bool(v)
		case int32:
			w.Uint8(extraInt32)
			w.Int32(v)
		case int64:
			w.Uint8(extraInt64)
			w.Int64(v)
		case float64:
			w.Uint8(extraFloat64)
			w.Float64(v)
		}
	}
}

func (e *Extras) read(r *wire.Reader) error {
	n := r.Length()
	if err := r.Err(); err != nil {
		return err
	}
	// each entry needs at least a key length and a tag
	if n > r.Remaining()/5 {
		r.Fail(&wire.UnderflowError{Offset: r.Offset(), Need: n * 5, Remaining: r.Remaining()})
		return r.Err()
	}
	e.values = nil
	for i := 0; i < n; i++ {
		key := r.Str()
		switch tag := r.Uint8(); tag {
		case extraString:
			e.put(key, r.Str())
		case extraBool:
			e.put(key, r.Bool())
		case extraInt32:
			e.put(key, r.Int32())
		case extraInt64:
			e.put(key, r.Int64())
		case extraFloat64:
			e.put(key, r.Float64())
		default:
			if r.Err() == nil {
				return fmt.Errorf("action: extra %q has unknown type tag %d", key, tag)
			}
		}
		if err := r.Err(); err != nil {
			return err
		}
	}
	return nil
}
