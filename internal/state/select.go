package state

import (
	"reflect"
	"sync"
)

// Select derives a value from the state and returns a subscribe function
// whose listeners fire only when that value changes according to equal.
// A nil equal falls back to reflect.DeepEqual.
func Select[T any](store *Store, selector func(State) T, equal func(a, b T) bool) func(listener func(next, prev T)) func() {
	if equal == nil {
		equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	return func(listener func(next, prev T)) func() {
		var mu sync.Mutex
		current := selector(store.GetState())
		return store.Subscribe(func(change Change) {
			next := selector(change.State)
			mu.Lock()
			if equal(current, next) {
				mu.Unlock()
				return
			}
			prev := current
			current = next
			mu.Unlock()
			listener(next, prev)
		})
	}
}
