package githost

import (
	"regexp"

	"github.com/devgrill/devgrill/internal/utils"
)

// Reference is the canonical (owner, project) identity of a repository,
// derived once from user input and immutable afterwards.
type Reference struct {
	Owner   string
	Project string
}

func (r Reference) String() string { return r.Owner + "/" + r.Project }

// Matches HTTPS ("https://github.com/owner/project"), SSH
// ("git@github.com:owner/project.git") and bare "github.com/owner/project"
// shapes, tolerating a trailing ".git" and/or "/".
var refPattern = regexp.MustCompile(`^(?:https?://|ssh://)?(?:git@)?(?:www\.)?github\.com[:/]([A-Za-z0-9][A-Za-z0-9_.-]*)/([A-Za-z0-9_.-]+?)(?:\.git)?/?$`)

// ParseReference extracts the canonical reference from a user-supplied
// repository URL. It is a pure function: no network, no state, and it never
// panics on arbitrary input. Strings that do not look like a hosting URL
// yield utils.ErrInvalidReference.
func ParseReference(raw string) (Reference, error) {
	m := refPattern.FindStringSubmatch(raw)
	if m == nil {
		return Reference{}, utils.ErrInvalidReference
	}
	return Reference{Owner: m[1], Project: m[2]}, nil
}
