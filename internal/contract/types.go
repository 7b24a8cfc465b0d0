package contract

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// RouteSelection names a path and the methods on it.
type RouteSelection struct {
	Path    string   `yaml:"path"`
	Methods []string `yaml:"methods"`
}

// Exclusions is the optional YAML file listing routes the check should skip,
// e.g. endpoints a given deployment is known not to document.
type Exclusions struct {
	Routes []RouteSelection `yaml:"routes,omitempty"`
}

// Kind classifies a finding.
type Kind string

const (
	MissingOperation Kind = "missing-operation"
	MissingBodyField Kind = "missing-body-field"
	MissingQuery     Kind = "missing-query-param"
	MissingFormField Kind = "missing-form-field"
)

// Finding is one mismatch between what the console sends and what the
// document describes.
type Finding struct {
	Kind   Kind
	Method string
	Path   string
	Field  string
}

func (f Finding) String() string {
	if f.Field == "" {
		return fmt.Sprintf("%s %s: %s", f.Method, f.Path, f.Kind)
	}
	return fmt.Sprintf("%s %s: %s %q", f.Method, f.Path, f.Kind, f.Field)
}

// Report is the outcome of a contract check.
type Report struct {
	Title    string
	Version  string
	Checked  int
	Skipped  int
	Findings []Finding
}

// OK reports whether no mismatch was found.
func (r *Report) OK() bool {
	return len(r.Findings) == 0
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %d routes checked, %d skipped, %d findings\n", r.Title, r.Version, r.Checked, r.Skipped, len(r.Findings))
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "  %s\n", f)
	}
	return b.String()
}

// Checker compares the routes the console calls with an OpenAPI document.
type Checker struct {
	doc        *openapi3.T
	exclusions *Exclusions
}
