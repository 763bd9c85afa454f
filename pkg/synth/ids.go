package synth

import (
	"strconv"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Id prefixes.
const (
	NodePrefix = "node-"
	EdgePrefix = "edge-"
)

// IDFunc mints a new identifier with the given prefix. Implementations must
// never return the same id twice within a process.
type IDFunc func(prefix string) string

// NanoID returns prefix followed by a random 21-character nanoid.
func NanoID(prefix string) string {
	return prefix + gonanoid.Must()
}

// Sequence returns an IDFunc producing prefix1, prefix2, ... It is safe for
// concurrent use and is intended for tests and reproducible output.
func Sequence() IDFunc {
	var n atomic.Int64
	return func(prefix string) string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	}
}
