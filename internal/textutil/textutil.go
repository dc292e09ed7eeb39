package textutil

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

const (
	DefaultTruncateSuffix = "...[truncated]"

	// shortIDLength is how much of an id NicePath keeps.
	shortIDLength = 5

	versionMajorBase = 10_000_000
	versionMinorBase = 10_000
)

var ErrSuffixTooLong = errors.New("suffix string cannot be longer than maxLength")

// DateToString formats t as "2006-01-02 15:04:05.000" in t's location,
// using 'T' as the separator when middleT is set. The zero time yields "".
func DateToString(t time.Time, middleT bool) string {
	if t.IsZero() {
		return ""
	}
	if middleT {
		return t.Format("2006-01-02T15:04:05.000")
	}
	return t.Format("2006-01-02 15:04:05.000")
}

// Truncate shortens s to at most maxLength runes using DefaultTruncateSuffix.
func Truncate(s string, maxLength int) (string, error) {
	return TruncateWithSuffix(s, maxLength, DefaultTruncateSuffix)
}

// TruncateWithSuffix shortens s to at most maxLength runes, ending the
// result with suffix when anything was cut.
func TruncateWithSuffix(s string, maxLength int, suffix string) (string, error) {
	suffixLen := utf8.RuneCountInString(suffix)
	if suffixLen > maxLength {
		return "", ErrSuffixTooLong
	}
	if utf8.RuneCountInString(s) <= maxLength {
		return s, nil
	}

	keep := maxLength - suffixLen
	var b strings.Builder
	for i, r := range []rune(s) {
		if i == keep {
			break
		}
		b.WriteRune(r)
	}
	b.WriteString(suffix)
	return b.String(), nil
}

// OrdinalSuffix returns the English ordinal suffix for n, e.g. "nd" for 2
// and "th" for 12.
func OrdinalSuffix(n int) string {
	v := n % 100
	if v < 0 {
		return "th"
	}
	if v >= 11 && v <= 13 {
		return "th"
	}
	switch v % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

// VersionIntToString converts a packed version number into "MAJOR.MINOR",
// or "MAJOR.MINOR.BUILD" when the build number is not zero.
func VersionIntToString(n int) (string, bool) {
	if n < 0 {
		return "", false
	}
	major := n / versionMajorBase
	rem := n % versionMajorBase
	minor := rem / versionMinorBase
	build := rem % versionMinorBase

	s := strconv.Itoa(major) + "." + strconv.Itoa(minor)
	if build > 0 {
		s += "." + strconv.Itoa(build)
	}
	return s, true
}

// VersionToInt packs major, minor and build into the form read by
// VersionIntToString.
func VersionToInt(major, minor, build int) int {
	return major*versionMajorBase + minor*versionMinorBase + build
}

// NicePath builds a readable path segment from the first characters of
// id, the word "api" and a slug of domain, or of customID when domain is
// empty.
func NicePath(id, customID, domain string) string {
	short := id
	if len(short) > shortIDLength {
		short = short[:shortIDLength]
	}
	name := domain
	if name == "" {
		name = customID
	}
	return strings.Join([]string{short, "api", slug.Make(name)}, "-")
}
