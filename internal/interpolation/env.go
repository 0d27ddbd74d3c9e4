// Package interpolation expands ${VAR} and ${VAR:default} references in
// configuration values. The Photoshop version selector is the main client:
// `version = "${PS_VERSION:}"` lets an environment variable pick the ProgID
// without editing the config file.
package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Captures the colon explicitly so ${VAR:} (empty default) is distinguishable
// from ${VAR} (no default).
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// ExpandEnvVars expands environment variable references in the input string.
//
// ${VAR_NAME} requires the variable to be set; a missing variable is an
// error. ${VAR_NAME:default} falls back to the default when the variable is
// unset, including the empty default of ${VAR_NAME:}.
func ExpandEnvVars(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	var missingVars []error
	result := envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		// submatches: [full_match, varName, colon, defaultValue]
		varName := submatches[1]
		colonIsPresent := submatches[2] == ":"
		defaultValue := submatches[3]

		value, exists := os.LookupEnv(varName)
		if exists {
			return value
		}

		if colonIsPresent {
			return defaultValue
		}

		missingVars = append(
			missingVars,
			fmt.Errorf("environment variable not defined: %s", varName),
		)
		return match
	})

	return result, errors.Join(missingVars...)
}
