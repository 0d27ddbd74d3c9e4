package ps

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultProgID is the version-independent COM class name. Windows resolves
// it to whichever Photoshop release registered last.
const DefaultProgID = "Photoshop.Application"

// progIDSuffixes maps marketing version names to the numeric suffix of the
// versioned ProgID, e.g. "2025" -> "Photoshop.Application.190".
var progIDSuffixes = map[string]string{
	"2025":     "190",
	"2024":     "180",
	"2023":     "170",
	"2022":     "160",
	"2021":     "150",
	"2020":     "140",
	"cc2019":   "130",
	"cc2018":   "120",
	"cc2017":   "110",
	"cc2015.5": "100",
	"cc2015":   "90",
	"cc2014":   "80",
	"cs6":      "60",
}

// ProgIDForVersion resolves a marketing version name to a ProgID. The empty
// string selects the version-independent default.
func ProgIDForVersion(version string) (string, error) {
	v := lower(version)
	if v == "" {
		return DefaultProgID, nil
	}
	suffix, ok := progIDSuffixes[v]
	if !ok {
		return "", fmt.Errorf(
			"unknown photoshop version %q (known: %s)", version, KnownVersionList(),
		)
	}
	return DefaultProgID + "." + suffix, nil
}

// IsKnownVersion reports whether the version string resolves to a ProgID.
// The empty string counts: it means "use the default registration".
func IsKnownVersion(version string) bool {
	if version == "" {
		return true
	}
	_, ok := progIDSuffixes[lower(version)]
	return ok
}

// KnownVersionList returns the accepted version names as a comma-separated
// string, newest first, for error messages and CLI help.
func KnownVersionList() string {
	names := make([]string, 0, len(progIDSuffixes))
	for name := range progIDSuffixes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := progIDSuffixes[names[i]], progIDSuffixes[names[j]]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a > b
	})
	return strings.Join(names, ", ")
}
