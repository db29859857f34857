package reactive

import "errors"

// ErrReadOnlyTarget is returned by Set/Del when target is not a
// ReactiveObject or ReactiveArray — spec's "reject on Vue instance or
// root $data" generalizes here to "reject anything not observed".
var ErrReadOnlyTarget = errors.New("reactive: target is not observed")

// Set implements $set/Vue.set (spec section 4.3, section 6): array-index aware,
// existing-key aware, and falls back to defining a brand-new reactive
// property that notifies the object's own Dep.
func Set(target any, key string, value any) error {
	switch t := target.(type) {
	case *ReactiveArray:
		idx, err := arrayIndex(key, t.Len())
		if err != nil {
			return err
		}
		if idx >= t.Len() {
			t.Splice(idx, 0, value)
		} else {
			t.SetAt(idx, value)
		}
		return nil
	case *ReactiveObject:
		t.Set(key, value)
		return nil
	default:
		return ErrReadOnlyTarget
	}
}

// Del implements $delete/Vue.delete: symmetric with Set, using Splice
// for arrays and Del for objects.
func Del(target any, key string) error {
	switch t := target.(type) {
	case *ReactiveArray:
		idx, err := arrayIndex(key, t.Len())
		if err != nil {
			return err
		}
		if idx >= t.Len() {
			return nil
		}
		t.Splice(idx, 1)
		return nil
	case *ReactiveObject:
		t.Del(key)
		return nil
	default:
		return ErrReadOnlyTarget
	}
}

func arrayIndex(key string, length int) (int, error) {
	n := 0
	for _, c := range key {
		if c < '0' || c > '9' {
			return 0, errors.New("reactive: invalid array index " + key)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
