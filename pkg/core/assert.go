package core

import "fmt"

// Assert panics when cond is false. It guards programming errors such as
// building a bounding box from an empty primitive list; callers must not
// recover from it.
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
