// Package templates renders the body skeletons for new Logics documents.
//
// Templates are embedded in the binary and rendered with text/template.
// The flow engine fills the typed data structs; there is no dynamic code
// execution, only placeholder substitution.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/logics-tools/logics/internal/docs"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

// Renderer renders document skeletons by kind.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded template set.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.md.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template for the given kind. The data argument must
// be the matching *Data struct.
func (r *Renderer) Render(kind docs.Kind, data any) (string, error) {
	var buf bytes.Buffer
	name := string(kind) + ".md.tmpl"
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", kind, err)
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

// Common carries the heading and indicator bindings shared by every kind.
type Common struct {
	DocRef        string
	Title         string
	FromVersion   string
	Understanding string
	Confidence    string
	Complexity    string
	Theme         string
	Progress      string
}

// RequestData binds the request template.
type RequestData struct {
	Common
	Needs   []string
	Context string
}

// BacklogData binds the backlog template.
type BacklogData struct {
	Common
	Problem    string
	Acceptance []string
	Notes      []string
}

// TaskData binds the task template.
type TaskData struct {
	Common
	Context    string
	Plan       []string
	Validation []string
}

// SpecData binds the spec template.
type SpecData struct {
	Common
	Overview    string
	Goal        string
	NonGoal     string
	UseCase     string
	Requirement string
	Acceptance  string
	Validation  string
	Question    string
	Notes       []string
}
