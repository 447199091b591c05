// ABOUTME: Version negotiation between the host and a script's declared requirement.
// ABOUTME: Requirements use semver constraint syntax; anything unparsable fails.

package hooks

import (
	"github.com/Masterminds/semver/v3"
)

// Negotiate reports whether host satisfies requirement.
func Negotiate(requirement string, host *semver.Version) bool {
	if host == nil {
		return false
	}
	c, err := semver.NewConstraint(requirement)
	if err != nil {
		return false
	}
	return c.Check(host)
}
