package blob

import (
	"fmt"
	"path"
	"strings"
	"unicode"
)

// ProjectPrefix is the root folder every project's objects live under.
const ProjectPrefix = "projects"

// ValidateProject rejects project names that cannot be used as a single key segment.
func ValidateProject(project string) error {
	return validateSegment("project", project)
}

// ValidateName rejects object names that would escape the project folder.
func ValidateName(name string) error {
	return validateSegment("name", name)
}

func validateSegment(what, s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s must not be empty", what)
	}
	if s == "." || strings.Contains(s, "..") {
		return fmt.Errorf("%s %q must not contain '..'", what, s)
	}
	if strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("%s %q must not contain path separators", what, s)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("%s %q contains control characters", what, s)
		}
	}
	return nil
}

// ProjectKey returns projects/{project}/{name}. Callers validate both segments.
func ProjectKey(project, name string) string {
	return path.Join(ProjectPrefix, project, name)
}
