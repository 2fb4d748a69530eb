package domain

// AddProject appends name to projects. It reports false, leaving projects
// unchanged, when name is empty or already present (exact match).
func AddProject(projects []string, name string) ([]string, bool) {
	if name == "" || ContainsProject(projects, name) {
		return projects, false
	}
	out := make([]string, 0, len(projects)+1)
	out = append(out, projects...)
	return append(out, name), true
}

// RemoveProject returns projects without name.
func RemoveProject(projects []string, name string) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		if p != name {
			out = append(out, p)
		}
	}
	return out
}

// ContainsProject reports whether name is in projects.
func ContainsProject(projects []string, name string) bool {
	for _, p := range projects {
		if p == name {
			return true
		}
	}
	return false
}
