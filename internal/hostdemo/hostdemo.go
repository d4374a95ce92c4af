// Package hostdemo registers a small set of example host classes,
// functions, and exceptions into a hostinterop.Registry, giving the
// overload-resolution and exception-hierarchy paths something concrete to
// resolve against in demo scripts and integration tests. Mirrors the
// teacher's examples/ffi: one register function per concern, each a plain
// list of RegisterFunction/RegisterClass calls against closures over
// ordinary Go types.
package hostdemo

import (
	"strings"
	"time"

	"github.com/scriptlang/pyast/internal/hostinterop"
)

// Stopwatch is a demo host struct (modeled loosely on time.Duration) that
// exercises field access, instance methods, and constructor overload
// resolution across the interop boundary.
type Stopwatch struct {
	Nanoseconds int64
}

// Seconds returns the elapsed time in seconds.
func (s Stopwatch) Seconds() float64 { return float64(s.Nanoseconds) / float64(time.Second) }

// String gives scripts a readable str(stopwatch): a HostObject is
// stringified with fmt's %v of its Go value, which uses this method.
func (s Stopwatch) String() string { return time.Duration(s.Nanoseconds).String() }

// Add returns a new Stopwatch advanced by the given number of seconds.
func (s Stopwatch) Add(seconds float64) Stopwatch {
	return Stopwatch{Nanoseconds: s.Nanoseconds + int64(seconds*float64(time.Second))}
}

// Register installs the demo classes, functions, and exception hierarchy
// into r (§6, §8 scenario 6's "host IllegalArgumentException").
func Register(r *hostinterop.Registry) {
	registerStopwatch(r)
	registerStringFunctions(r)
	registerExceptions(r)
}

func registerStopwatch(r *hostinterop.Registry) {
	r.RegisterClass("Stopwatch", Stopwatch{})
	r.RegisterConstructor("Stopwatch", func() Stopwatch {
		return Stopwatch{}
	})
	r.RegisterConstructor("Stopwatch", func(seconds float64) Stopwatch {
		return Stopwatch{Nanoseconds: int64(seconds * float64(time.Second))}
	})
}

func registerStringFunctions(r *hostinterop.Registry) {
	r.RegisterFunction("Repeat", func(s string, count int64) string {
		return strings.Repeat(s, int(count))
	})
	r.RegisterFunction("Join", func(parts []string, sep string) string {
		return strings.Join(parts, sep)
	})
}

// registerExceptions wires a two-level exception hierarchy: Exception at
// the root, IllegalArgumentException beneath it. Both constructors return a
// bare error (a *hostinterop.HostError), so calling `IllegalArgumentException
// ("msg")` from a script fails the call immediately with a matchable
// HostException — exactly the behavior `raise IllegalArgumentException(...)`
// needs (§4.3, §8 scenario 6).
func registerExceptions(r *hostinterop.Registry) {
	r.RegisterClass("Exception", struct{}{})
	r.RegisterConstructor("Exception", func(message string) error {
		return hostinterop.NewHostError("Exception", "%s", message)
	})

	r.RegisterClass("IllegalArgumentException", struct{}{})
	r.RegisterConstructor("IllegalArgumentException", func(message string) error {
		return hostinterop.NewHostError("IllegalArgumentException", "%s", message)
	})
	r.RegisterExceptionHierarchy("IllegalArgumentException", "Exception")

	r.RegisterFunction("Assert", func(cond bool, message string) error {
		if cond {
			return nil
		}
		return hostinterop.NewHostError("IllegalArgumentException", "%s", message)
	})
}
