package value

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Dict is an insertion-agnostic mapping from hashable Values to Values
// (§3). Internally keyed by a normalized hash string so that lookups don't
// depend on map iteration order or on Go's own equality for composite
// values.
type Dict struct {
	keys   []Value       // insertion order, for deterministic iteration
	byHash map[string]int // hash -> index into keys/vals
	vals   []Value
}

func NewDict() *Dict {
	return &Dict{byHash: map[string]int{}}
}

func (*Dict) TypeName() string { return "dict" }
func (d *Dict) Length() int    { return len(d.keys) }

// hashKey produces a stable string key for a hashable Value. Str keys are
// normalized to Unicode NFC first, so that two strings which render
// identically but differ in combining-mark decomposition still collide to
// the same dict entry — the concrete guarantee behind the value model
// being documented as "Unicode code-point string" rather than raw bytes.
func hashKey(key Value) (string, error) {
	switch k := key.(type) {
	case Int:
		return fmt.Sprintf("i:%d", int64(k)), nil
	case Int64:
		return fmt.Sprintf("i:%d", int64(k)), nil
	case Float32:
		return fmt.Sprintf("f:%v", float64(k)), nil
	case Float64:
		return fmt.Sprintf("f:%v", float64(k)), nil
	case Str:
		return "s:" + norm.NFC.String(string(k)), nil
	case Bool:
		return fmt.Sprintf("b:%v", bool(k)), nil
	case NoneValue:
		return "n:", nil
	case *Tuple:
		h := "t:("
		for _, it := range k.Items {
			sub, err := hashKey(it)
			if err != nil {
				return "", err
			}
			h += sub + ","
		}
		return h + ")", nil
	default:
		return "", fmt.Errorf("unhashable type: %s", key.TypeName())
	}
}

func (d *Dict) GetItem(key Value) (Value, error) {
	h, err := hashKey(key)
	if err != nil {
		return nil, err
	}
	idx, ok := d.byHash[h]
	if !ok {
		return nil, fmt.Errorf("key not found")
	}
	return d.vals[idx], nil
}

func (d *Dict) SetItem(key, val Value) error {
	h, err := hashKey(key)
	if err != nil {
		return err
	}
	if idx, ok := d.byHash[h]; ok {
		d.vals[idx] = val
		return nil
	}
	d.byHash[h] = len(d.keys)
	d.keys = append(d.keys, key)
	d.vals = append(d.vals, val)
	return nil
}

func (d *Dict) DeleteItem(key Value) error {
	h, err := hashKey(key)
	if err != nil {
		return err
	}
	idx, ok := d.byHash[h]
	if !ok {
		return fmt.Errorf("key not found")
	}
	d.keys = append(d.keys[:idx], d.keys[idx+1:]...)
	d.vals = append(d.vals[:idx], d.vals[idx+1:]...)
	delete(d.byHash, h)
	for k, i := range d.byHash {
		if i > idx {
			d.byHash[k] = i - 1
		}
	}
	return nil
}

func (d *Dict) Contains(v Value) (bool, error) {
	h, err := hashKey(v)
	if err != nil {
		return false, nil // unhashable probe value is simply not "in" the dict
	}
	_, ok := d.byHash[h]
	return ok, nil
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Value { return append([]Value(nil), d.keys...) }

// Values returns the values in insertion order, aligned with Keys.
func (d *Dict) Values() []Value { return append([]Value(nil), d.vals...) }

// Items returns (key, value) pairs in insertion order.
func (d *Dict) Items() [][2]Value {
	out := make([][2]Value, len(d.keys))
	for i := range d.keys {
		out[i] = [2]Value{d.keys[i], d.vals[i]}
	}
	return out
}
