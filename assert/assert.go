package assert

import "github.com/oomph-ac/racesim/oerror"

// IsTrue panics with a formatted message if ok is false. It guards states that the simulator
// makes unreachable by construction.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
