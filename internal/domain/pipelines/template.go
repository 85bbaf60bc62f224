package pipelines

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// workflow models the subset of the GitHub Actions workflow schema the
// generated pipelines use. Field order matches the conventional layout
// of hand-written workflow files.
type workflow struct {
	Name string            `yaml:"name"`
	On   workflowTriggers  `yaml:"on"`
	Env  map[string]string `yaml:"env,omitempty"`
	Jobs map[string]job    `yaml:"jobs"`
}

type workflowTriggers struct {
	Push        *branchFilter `yaml:"push,omitempty"`
	PullRequest *branchFilter `yaml:"pull_request,omitempty"`
}

type branchFilter struct {
	Branches []string `yaml:"branches"`
}

type job struct {
	RunsOn string `yaml:"runs-on"`
	Steps  []step `yaml:"steps"`
}

type step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	Env  map[string]string `yaml:"env,omitempty"`
}

var mainBranch = &branchFilter{Branches: []string{"main"}}

// RenderWorkflow produces the CI workflow YAML for the detected project
// type. Unknown projects get a minimal generic pipeline rather than an
// error so generation always succeeds.
func RenderWorkflow(projectType ProjectType) (string, error) {
	var wf workflow

	switch projectType {
	case TypeGo:
		wf = workflow{
			Name: "Sentinai Go CI",
			On:   workflowTriggers{Push: mainBranch, PullRequest: mainBranch},
			Env:  map[string]string{"CGO_ENABLED": "0"},
			Jobs: map[string]job{
				"build": {
					RunsOn: "ubuntu-latest",
					Steps: []step{
						{Uses: "actions/checkout@v3"},
						{Uses: "actions/setup-go@v4", With: map[string]string{"go-version": "stable"}},
						{Name: "Build", Run: "go build ./..."},
						{Name: "Run tests", Run: "go test ./..."},
						{Name: "Security audit", Run: "govulncheck ./..."},
					},
				},
			},
		}
	case TypeNode:
		wf = workflow{
			Name: "Sentinai Node CI",
			On:   workflowTriggers{Push: mainBranch},
			Jobs: map[string]job{
				"build": {
					RunsOn: "ubuntu-latest",
					Steps: []step{
						{Uses: "actions/checkout@v3"},
						{Uses: "actions/setup-node@v3", With: map[string]string{"node-version": "18"}},
						{Run: "npm install"},
						{Run: "npm test"},
						{Run: "npm audit"},
					},
				},
			},
		}
	case TypePython:
		wf = workflow{
			Name: "Sentinai Python CI",
			On:   workflowTriggers{Push: mainBranch},
			Jobs: map[string]job{
				"build": {
					RunsOn: "ubuntu-latest",
					Steps: []step{
						{Uses: "actions/checkout@v3"},
						{Uses: "actions/setup-python@v4", With: map[string]string{"python-version": "3.10"}},
						{Run: "pip install -r requirements.txt"},
						{Run: "pytest"},
						{Run: "safety check"},
					},
				},
			},
		}
	default:
		wf = workflow{
			Name: "Generic",
			On:   workflowTriggers{Push: mainBranch},
			Jobs: map[string]job{
				"build": {
					RunsOn: "ubuntu-latest",
					Steps: []step{
						{Run: "echo 'Unknown project type'"},
					},
				},
			},
		}
	}

	out, err := yaml.Marshal(wf)
	if err != nil {
		return "", fmt.Errorf("render workflow: %w", err)
	}
	return string(out), nil
}
