package term

import "os"

// IsTerminal reports whether f looks like a terminal. It is used to choose
// a human readable log format for interactive runs.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0 && fi.Mode()&os.ModeDevice != 0
}
