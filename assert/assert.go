package assert

import "github.com/oomph-ac/culling/oerror"

// IsTrue panics with a formatted error if ok is false.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// NoError panics with the error passed if it is non-nil. It is used for failures that can only be caused by a
// broken extension during startup.
func NoError(err error, context string) {
	if err != nil {
		panic(oerror.New("%s: %v", context, err))
	}
}
