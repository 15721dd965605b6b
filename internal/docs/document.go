package docs

import (
	"regexp"
	"strings"
)

// headingPattern matches the required first heading: "## <doc_ref> - <Title>".
var headingPattern = regexp.MustCompile(`^##\s+(\S+)\s*-\s*(.+?)\s*$`)

// Section is one "# "-delimited body section. The heading is the literal
// line including the leading "# "; body lines are kept verbatim with
// trailing blanks trimmed.
type Section struct {
	Heading string
	Lines   []string
}

// Contains reports whether any body line contains the given substring.
func (s *Section) Contains(substr string) bool {
	for _, line := range s.Lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// Document is the in-memory form of a single Logics Markdown file.
type Document struct {
	Kind  Kind
	Ref   string
	Title string
	// Path is the repository-relative path the document was scanned from.
	// Empty for documents that have not been persisted yet.
	Path string

	Indicators []Indicator
	// Preamble holds any body lines between the indicator block and the
	// first section heading. Usually empty.
	Preamble []string
	Sections []Section
	// References are the doc_refs mentioned anywhere in the document,
	// excluding the document's own ref.
	References []string
}

// Parse builds a Document from raw file contents. The kind comes from the
// directory the file was found in; path is kept for reporting.
//
// A missing first heading or an unparsable indicator line is a ParseError:
// batch scans report it and skip the file rather than aborting.
func Parse(kind Kind, path string, data []byte) (*Document, error) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	headingIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "## ") {
			headingIdx = i
			break
		}
	}
	if headingIdx < 0 {
		return nil, &ParseError{Path: path, Reason: "missing first heading (expected '## <doc_ref> - <Title>')"}
	}

	doc := &Document{Kind: kind, Path: path}
	heading := lines[headingIdx]
	if m := headingPattern.FindStringSubmatch(heading); m != nil {
		doc.Ref = m[1]
		doc.Title = m[2]
	} else {
		doc.Ref = stem(path)
		doc.Title = strings.TrimSpace(strings.TrimPrefix(heading, "## "))
	}

	// Indicator block: consecutive "> " lines right after the heading.
	i := headingIdx + 1
	for i < len(lines) && strings.HasPrefix(lines[i], ">") {
		ind, err := parseIndicatorLine(lines[i])
		if err != nil {
			return nil, &ParseError{Path: path, Reason: err.Error()}
		}
		doc.setParsed(ind)
		i++
	}

	// Preamble: anything before the first section heading.
	var preamble []string
	for i < len(lines) && !strings.HasPrefix(lines[i], "# ") {
		preamble = append(preamble, lines[i])
		i++
	}
	doc.Preamble = trimBlankEdges(preamble)

	// Sections: "# " headings anchor everything that follows.
	for i < len(lines) {
		section := Section{Heading: strings.TrimRight(lines[i], " \t")}
		i++
		for i < len(lines) && !strings.HasPrefix(lines[i], "# ") {
			section.Lines = append(section.Lines, lines[i])
			i++
		}
		section.Lines = trimTrailingBlanks(section.Lines)
		doc.Sections = append(doc.Sections, section)
	}

	doc.References = findReferences(string(data), doc.Ref)
	return doc, nil
}

// Serialize renders the document back to canonical Markdown: heading,
// indicator block in canonical order, then sections separated by single
// blank lines. Serialize(Parse(x)) is stable under re-parsing.
func (d *Document) Serialize() []byte {
	var out []string
	out = append(out, "## "+d.Ref+" - "+d.Title)
	for _, ind := range d.canonicalIndicators() {
		out = append(out, "> "+ind.Label+": "+ind.Value)
	}
	if len(d.Preamble) > 0 {
		out = append(out, "")
		out = append(out, d.Preamble...)
	}
	for _, section := range d.Sections {
		out = append(out, "", section.Heading)
		out = append(out, section.Lines...)
	}
	text := strings.Join(out, "\n")
	return []byte(strings.TrimRight(text, "\n") + "\n")
}

// Slug returns the slug portion of the document's ref.
func (d *Document) Slug() string { return RefSlug(d.Ref) }

// ID returns the numeric ID portion of the document's ref, or -1 when the
// ref does not follow the doc_ref grammar.
func (d *Document) ID() int {
	_, id, _, err := ParseRef(d.Ref)
	if err != nil {
		return -1
	}
	return id
}

// Section returns the section with the given literal heading, or nil.
func (d *Document) Section(heading string) *Section {
	for i := range d.Sections {
		if strings.TrimSpace(d.Sections[i].Heading) == heading {
			return &d.Sections[i]
		}
	}
	return nil
}

// EnsureSection appends an empty section with default body lines when no
// section with that heading exists. Reports whether the document changed.
func (d *Document) EnsureSection(heading string, defaultLines []string) bool {
	if d.Section(heading) != nil {
		return false
	}
	d.Sections = append(d.Sections, Section{Heading: heading, Lines: append([]string(nil), defaultLines...)})
	return true
}

// AppendToSection adds a line at the end of the named section, creating the
// section when missing. Returns false when an equal line is already present.
func (d *Document) AppendToSection(heading, line string) bool {
	section := d.Section(heading)
	if section == nil {
		d.Sections = append(d.Sections, Section{Heading: heading, Lines: []string{line}})
		return true
	}
	if section.Contains(line) {
		return false
	}
	section.Lines = append(section.Lines, line)
	return true
}

// RefreshReferences recomputes the outgoing reference set from the current
// section contents. Called after mutations that add or remove doc_refs.
func (d *Document) RefreshReferences() {
	d.References = findReferences(string(d.Serialize()), d.Ref)
}

func findReferences(text, ownRef string) []string {
	seen := map[string]bool{}
	var refs []string
	for _, m := range RefPattern.FindAllString(text, -1) {
		if m == ownRef || seen[m] {
			continue
		}
		seen[m] = true
		refs = append(refs, m)
	}
	return refs
}

func stem(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ".md")
}

func trimTrailingBlanks(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func trimBlankEdges(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return trimTrailingBlanks(lines)
}
