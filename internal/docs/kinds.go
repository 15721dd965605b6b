// Package docs implements the Logics document model: a typed, line-oriented
// representation of the Markdown work documents (request, backlog item, task,
// spec) that the flow engine creates and maintains.
//
// This package follows the same design principles as the rest of the tree:
// - SRP: kinds, slugs, parsing, and indicators live in separate files
// - DIP: callers depend on Document values, never on raw file contents
// - OCP: new document kinds are added by extending the registry, not by
//   modifying the parser
package docs

import "fmt"

// Kind identifies a document's lifecycle stage.
type Kind string

const (
	KindRequest Kind = "request"
	KindBacklog Kind = "backlog"
	KindTask    Kind = "task"
	KindSpec    Kind = "spec"
)

// AllKinds lists every kind in lifecycle order. Spec is a parallel artifact
// rather than a stage, but it scans and lints like the others.
var AllKinds = []Kind{KindRequest, KindBacklog, KindTask, KindSpec}

// kindInfo holds the per-kind registry entry.
type kindInfo struct {
	prefix      string
	dir         string
	hasProgress bool
	required    []string
}

var kinds = map[Kind]kindInfo{
	KindRequest: {
		prefix:   "req",
		dir:      "logics/request",
		required: []string{FromVersion, Understanding, Confidence, Complexity, Theme},
	},
	KindBacklog: {
		prefix:      "item",
		dir:         "logics/backlog",
		hasProgress: true,
		required:    []string{FromVersion, Understanding, Confidence, Complexity, Theme, Progress},
	},
	KindTask: {
		prefix:      "task",
		dir:         "logics/tasks",
		hasProgress: true,
		required:    []string{FromVersion, Understanding, Confidence, Complexity, Theme, Progress},
	},
	KindSpec: {
		prefix:   "spec",
		dir:      "logics/specs",
		required: []string{FromVersion, Understanding, Confidence},
	},
}

// prefixToKind is the reverse index for doc_ref resolution.
var prefixToKind = map[string]Kind{
	"req":  KindRequest,
	"item": KindBacklog,
	"task": KindTask,
	"spec": KindSpec,
}

// ValidateKind returns an error if the kind is not recognized.
func ValidateKind(k Kind) error {
	if _, ok := kinds[k]; !ok {
		return fmt.Errorf("invalid document kind %q: must be one of: request, backlog, task, spec", k)
	}
	return nil
}

// ParseKind converts a user-supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if err := ValidateKind(k); err != nil {
		return "", err
	}
	return k, nil
}

// KindForPrefix resolves a doc_ref prefix (req, item, task, spec) to its kind.
func KindForPrefix(prefix string) (Kind, bool) {
	k, ok := prefixToKind[prefix]
	return k, ok
}

// Prefix returns the doc_ref prefix for the kind.
func (k Kind) Prefix() string { return kinds[k].prefix }

// Dir returns the repository-relative directory the kind's documents live in.
func (k Kind) Dir() string { return kinds[k].dir }

// HasProgress reports whether the kind carries a Progress indicator.
func (k Kind) HasProgress() bool { return kinds[k].hasProgress }

// RequiredIndicators returns the indicator labels every document of this
// kind must carry. The returned slice is a copy.
func (k Kind) RequiredIndicators() []string {
	req := kinds[k].required
	out := make([]string, len(req))
	copy(out, req)
	return out
}
