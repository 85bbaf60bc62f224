package pipelines

import "strings"

// ProjectType is the language family a CI workflow is rendered for.
type ProjectType string

const (
	TypeGo      ProjectType = "go"
	TypeNode    ProjectType = "node"
	TypePython  ProjectType = "python"
	TypeUnknown ProjectType = "unknown"
)

// DetectProjectType guesses the language family from hints in the
// repository URL. The hosted repository is never cloned or inspected,
// so this is a placeholder heuristic; anything without a recognizable
// hint falls back to the generic workflow.
func DetectProjectType(repositoryURL string) ProjectType {
	url := strings.ToLower(repositoryURL)

	switch {
	case containsAny(url, "-go", "go-", "golang"):
		return TypeGo
	case containsAny(url, "node", "-js", "js-", "javascript", "typescript", "-ts"):
		return TypeNode
	case containsAny(url, "python", "-py", "py-", "django", "flask"):
		return TypePython
	default:
		return TypeUnknown
	}
}

func containsAny(s string, hints ...string) bool {
	for _, hint := range hints {
		if strings.Contains(s, hint) {
			return true
		}
	}
	return false
}
