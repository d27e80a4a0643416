// full path: github.com/untrusted-value/taintcheck/guides/quickstart
package quickstart

import (
	"os"

	"github.com/untrusted-value/taintcheck/guides/quickstart/untrusted"
)

// databaseURL wraps the environment value immediately, so the analyzer
// stays quiet.
func databaseURL() untrusted.Value {
	return untrusted.Wrap(os.Getenv("DATABASE_URL"))
}

// listenAddress returns the raw environment value; running the analyzer
// over this package reports it.
func listenAddress() string {
	return os.Getenv("LISTEN_ADDR")
}
