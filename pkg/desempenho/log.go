package desempenho

import (
	"io"
	"log"
	"os"
)

var logger = log.New(io.Discard, "desempenho: ", log.LstdFlags)

// SetLog enables or disables diagnostic logging to stderr.
func SetLog(enable bool) {
	if enable {
		logger.SetOutput(os.Stderr)
		return
	}
	logger.SetOutput(io.Discard)
}

// Log logs the given message if logging is enabled.
func Log(f string, args ...interface{}) {
	logger.Printf(f, args...)
}
