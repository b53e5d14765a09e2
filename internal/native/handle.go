//go:build cgo

package native

import "runtime/cgo"

// sourceFromHandle resolves the loader context passed back by the engine.
// A stale or foreign handle yields ok=false instead of a panic inside a
// callback invoked from C.
func sourceFromHandle(h uintptr) (Source, bool) {
	if h == 0 {
		return nil, false
	}
	var (
		value     any
		recovered bool
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				recovered = true
				value = nil
			}
		}()
		value = cgo.Handle(h).Value()
	}()
	if recovered || value == nil {
		return nil, false
	}
	src, ok := value.(Source)
	return src, ok
}
