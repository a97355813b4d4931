// Package version exposes the ecoscore build version and the API version
// advertised in every response envelope.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// APIVersion is the version of the HTTP report contract.
const APIVersion = "2.1.0"

// version is overridden at build time with -ldflags "-X".
var version = "0.1.0-dev" //nolint:gochecknoglobals // set via ldflags

// GetVersion returns the build version.
func GetVersion() string {
	return version
}

// GetAPIVersion returns the API contract version.
func GetAPIVersion() string {
	return APIVersion
}

// CheckCompatible reports whether a client-requested API version can be
// served. An empty request is always compatible; otherwise the request must
// parse as semver and share the server's major version without exceeding
// its minor version.
func CheckCompatible(requested string) error {
	if requested == "" {
		return nil
	}

	want, err := semver.NewVersion(requested)
	if err != nil {
		return fmt.Errorf("invalid API version %q: %w", requested, err)
	}

	have := semver.MustParse(APIVersion)
	constraint, err := semver.NewConstraint(fmt.Sprintf("^%d.0.0, < %d.%d.0", have.Major(), have.Major(), have.Minor()+1))
	if err != nil {
		return fmt.Errorf("building API version constraint: %w", err)
	}

	if !constraint.Check(want) {
		return fmt.Errorf("API version %s is not supported by server version %s", want, have)
	}
	return nil
}
