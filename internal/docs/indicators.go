package docs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Canonical indicator labels. Documents may carry extra custom indicators;
// those are preserved verbatim and serialized after the canonical set.
const (
	FromVersion   = "From version"
	Understanding = "Understanding"
	Confidence    = "Confidence"
	Complexity    = "Complexity"
	Theme         = "Theme"
	Progress      = "Progress"
)

// CanonicalOrder fixes the serialization order of known indicators.
var CanonicalOrder = []string{FromVersion, Understanding, Confidence, Complexity, Theme, Progress}

// labelSynonyms maps tolerated label variants to their canonical form.
// Matching is case-insensitive on the normalized label.
var labelSynonyms = map[string]string{
	"from":       FromVersion,
	"version":    FromVersion,
	"done":       Progress,
	"completion": Progress,
}

// Defaults are the placeholder values the fixer fills in for a missing
// required indicator when run in repair mode. Validation never fills these
// silently; only an explicit --write does.
var Defaults = map[string]string{
	FromVersion:   "X.X.X",
	Understanding: "??%",
	Confidence:    "??%",
	Complexity:    "??",
	Theme:         "General",
	Progress:      "0%",
}

// Indicator is one "> Label: value" metadata line.
type Indicator struct {
	Label string
	Value string
}

var indicatorLinePattern = regexp.MustCompile(`^>\s*([^:]+):\s*(.*?)\s*$`)

// parseIndicatorLine parses a single "> Label: value" line, canonicalizing
// the label through the synonym table.
func parseIndicatorLine(line string) (Indicator, error) {
	m := indicatorLinePattern.FindStringSubmatch(line)
	if m == nil {
		return Indicator{}, fmt.Errorf("unparsable indicator line %q (expected '> Label: value')", line)
	}
	return Indicator{Label: CanonicalLabel(strings.TrimSpace(m[1])), Value: m[2]}, nil
}

// CanonicalLabel maps a parsed label to its canonical form. Known labels
// match case-insensitively; unknown labels pass through verbatim.
func CanonicalLabel(label string) string {
	lower := strings.ToLower(label)
	if canonical, ok := labelSynonyms[lower]; ok {
		return canonical
	}
	for _, known := range CanonicalOrder {
		if strings.EqualFold(label, known) {
			return known
		}
	}
	return label
}

// Indicator returns the value for a label (canonical or synonym).
func (d *Document) Indicator(label string) (string, bool) {
	label = CanonicalLabel(label)
	for _, ind := range d.Indicators {
		if ind.Label == label {
			return ind.Value, true
		}
	}
	return "", false
}

// SetIndicator merges a single indicator update, replacing an existing
// value in place or appending a new indicator.
func (d *Document) SetIndicator(label, value string) {
	label = CanonicalLabel(label)
	for i := range d.Indicators {
		if d.Indicators[i].Label == label {
			d.Indicators[i].Value = value
			return
		}
	}
	d.Indicators = append(d.Indicators, Indicator{Label: label, Value: value})
}

// setParsed records an indicator during parsing. Duplicate labels collapse
// to the last occurrence, matching how a reader would resolve them.
func (d *Document) setParsed(ind Indicator) {
	for i := range d.Indicators {
		if d.Indicators[i].Label == ind.Label {
			d.Indicators[i].Value = ind.Value
			return
		}
	}
	d.Indicators = append(d.Indicators, ind)
}

// ReadIndicators returns the indicator mapping, tolerant of synonyms and
// whitespace (both handled at parse time).
func (d *Document) ReadIndicators() map[string]string {
	out := make(map[string]string, len(d.Indicators))
	for _, ind := range d.Indicators {
		out[ind.Label] = ind.Value
	}
	return out
}

// WriteIndicators merges updates into the document's indicators. Unknown
// and custom indicators are preserved; serialization order is canonical.
func (d *Document) WriteIndicators(updates map[string]string) {
	for label, value := range updates {
		d.SetIndicator(label, value)
	}
}

// MissingIndicators lists the required labels for the document's kind that
// the document does not carry.
func (d *Document) MissingIndicators() []string {
	var missing []string
	for _, label := range d.Kind.RequiredIndicators() {
		if _, ok := d.Indicator(label); !ok {
			missing = append(missing, label)
		}
	}
	return missing
}

// canonicalIndicators returns indicators sorted into canonical order, with
// custom indicators after the known set in their original order.
func (d *Document) canonicalIndicators() []Indicator {
	var out []Indicator
	for _, label := range CanonicalOrder {
		for _, ind := range d.Indicators {
			if ind.Label == label {
				out = append(out, ind)
				break
			}
		}
	}
	for _, ind := range d.Indicators {
		if !isCanonical(ind.Label) {
			out = append(out, ind)
		}
	}
	return out
}

func isCanonical(label string) bool {
	for _, known := range CanonicalOrder {
		if label == known {
			return true
		}
	}
	return false
}

// --- Progress computation ---

var checkboxPattern = regexp.MustCompile(`^\s*- \[([xX ])\]`)

// progressSections maps a kind to the section headings inspected for
// checkbox completion, in priority order. The first section containing at
// least one checkbox wins.
var progressSections = map[Kind][]string{
	KindTask:    {"# Plan"},
	KindBacklog: {"# Plan", "# Acceptance criteria"},
}

// ComputeProgress derives a percentage from checked vs. total checkboxes in
// the kind's designated sections. Returns ok=false when no section has any
// checkbox: a 0/0 ratio is undefined, not 0%.
func ComputeProgress(d *Document) (percent int, ok bool) {
	for _, heading := range progressSections[d.Kind] {
		section := d.Section(heading)
		if section == nil {
			continue
		}
		done, total := countCheckboxes(section.Lines)
		if total > 0 {
			return int(math.Round(float64(done) / float64(total) * 100)), true
		}
	}
	return 0, false
}

func countCheckboxes(lines []string) (done, total int) {
	for _, line := range lines {
		m := checkboxPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		total++
		if strings.EqualFold(m[1], "x") {
			done++
		}
	}
	return done, total
}

// ParsePercent extracts the numeric value from an indicator like "60%".
// Returns ok=false for placeholders such as "??%" or free-form values.
func ParsePercent(value string) (int, bool) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), "%")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatPercent renders a progress percentage as an indicator value.
func FormatPercent(percent int) string {
	return strconv.Itoa(percent) + "%"
}
