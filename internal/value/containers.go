package value

import "fmt"

// List is an ordered, mutable sequence (§3).
type List struct {
	Items []Value
}

func NewList(items []Value) *List { return &List{Items: items} }

func (*List) TypeName() string { return "list" }
func (l *List) Length() int    { return len(l.Items) }

func (l *List) resolveIndex(i int64) (int, error) {
	n := int64(len(l.Items))
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("list index out of range")
	}
	return int(idx), nil
}

func (l *List) GetItem(key Value) (Value, error) {
	if sl, ok := key.(*Slice); ok {
		items, err := sliceSequence(l.Items, sl)
		if err != nil {
			return nil, err
		}
		return NewList(items), nil
	}
	i, err := asIndex(key)
	if err != nil {
		return nil, err
	}
	idx, err := l.resolveIndex(i)
	if err != nil {
		return nil, err
	}
	return l.Items[idx], nil
}

func (l *List) SetItem(key, val Value) error {
	i, err := asIndex(key)
	if err != nil {
		return err
	}
	idx, err := l.resolveIndex(i)
	if err != nil {
		return err
	}
	l.Items[idx] = val
	return nil
}

func (l *List) DeleteItem(key Value) error {
	i, err := asIndex(key)
	if err != nil {
		return err
	}
	idx, err := l.resolveIndex(i)
	if err != nil {
		return err
	}
	l.Items = append(l.Items[:idx], l.Items[idx+1:]...)
	return nil
}

func (l *List) Contains(v Value) (bool, error) {
	for _, it := range l.Items {
		eq, err := Equal(it, v)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

// Append mutates the list in place; used by `list += iterable` (§4.3, §8).
func (l *List) Append(items ...Value) {
	l.Items = append(l.Items, items...)
}

// Tuple is an ordered, immutable sequence (§3).
type Tuple struct {
	Items []Value
}

func NewTuple(items []Value) *Tuple { return &Tuple{Items: items} }

func (*Tuple) TypeName() string { return "tuple" }
func (t *Tuple) Length() int    { return len(t.Items) }

func (t *Tuple) GetItem(key Value) (Value, error) {
	if sl, ok := key.(*Slice); ok {
		items, err := sliceSequence(t.Items, sl)
		if err != nil {
			return nil, err
		}
		return NewTuple(items), nil
	}
	i, err := asIndex(key)
	if err != nil {
		return nil, err
	}
	n := int64(len(t.Items))
	idx := i
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return nil, fmt.Errorf("tuple index out of range")
	}
	return t.Items[idx], nil
}

func (t *Tuple) Contains(v Value) (bool, error) {
	for _, it := range t.Items {
		eq, err := Equal(it, v)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

func asIndex(key Value) (int64, error) {
	switch k := key.(type) {
	case Int:
		return int64(k), nil
	case Int64:
		return int64(k), nil
	default:
		return 0, fmt.Errorf("indices must be integers, not %s", key.TypeName())
	}
}

// sliceSequence returns a shallow sub-sequence; step must be absent or 1
// (§4.2's boundary behavior: step != 1 raises ValueError, surfaced by the
// caller since this package doesn't import scripterr to avoid a cycle).
func sliceSequence(items []Value, sl *Slice) ([]Value, error) {
	n := int64(len(items))
	step := int64(1)
	if sl.Step != nil {
		s, err := asIndex(sl.Step)
		if err != nil {
			return nil, err
		}
		step = s
	}
	if step != 1 {
		return nil, errSliceStep
	}
	lower, upper := int64(0), n
	if sl.Lower != nil {
		v, err := asIndex(sl.Lower)
		if err != nil {
			return nil, err
		}
		lower = clampIndex(v, n)
	}
	if sl.Upper != nil {
		v, err := asIndex(sl.Upper)
		if err != nil {
			return nil, err
		}
		upper = clampIndex(v, n)
	}
	if upper < lower {
		upper = lower
	}
	out := make([]Value, upper-lower)
	copy(out, items[lower:upper])
	return out, nil
}

func clampIndex(i, n int64) int64 {
	if i < 0 {
		i += n
	}
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}

// errSliceStep is returned (as a plain error, wrapped by the evaluator into
// a scripterr ValueError) when a slice step other than 1 is requested.
var errSliceStep = fmt.Errorf("slice step must be 1")

// ErrSliceStep exposes errSliceStep for callers that need to recognize it
// specifically (the evaluator maps it to scripterr.NewValueError).
var ErrSliceStep = errSliceStep
