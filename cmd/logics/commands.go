package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/logics-tools/logics/internal/config"
	"github.com/logics-tools/logics/internal/docs"
	"github.com/logics-tools/logics/internal/fixer"
	"github.com/logics-tools/logics/internal/flow"
	"github.com/logics-tools/logics/internal/journal"
	"github.com/logics-tools/logics/internal/lint"
	"github.com/logics-tools/logics/internal/repo"
	"github.com/logics-tools/logics/internal/report"
	"github.com/logics-tools/logics/internal/templates"
)

// runCommand dispatches the non-serve subcommands.
func runCommand(cmd string, args []string) error {
	switch cmd {
	case "new":
		return runNew(args)
	case "promote":
		return runPromote(args)
	case "set":
		return runSet(args)
	case "fix":
		return runFix(args)
	case "lint":
		return runLint(args)
	case "index":
		return runIndex(args)
	case "relations":
		return runRelations(args)
	case "duplicates":
		return runDuplicates(args)
	case "journal":
		return runJournal(args)
	}
	return fmt.Errorf("unknown command: %s", cmd)
}

// cliWorkspace bundles the collaborators every subcommand needs. Mirrors
// the MCP tool workspace so both surfaces behave identically.
type cliWorkspace struct {
	repo *repo.Repository
	cfg  *config.Config
	jnl  *journal.Journal // nil when disabled or unavailable
}

// openCLI resolves the repository root (flag > config > discovery from the
// working directory) and loads configuration. The journal is best-effort.
func openCLI(rootFlag string) (*cliWorkspace, error) {
	root := rootFlag
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		root, err = repo.FindRoot(cwd)
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if rootFlag == "" && cfg.Root != "" {
		root = cfg.Root
	}

	w := &cliWorkspace{repo: repo.New(root), cfg: cfg}
	if cfg.Journal {
		jnl, err := journal.OpenAt(root)
		if err != nil {
			log.Printf("WARNING: journal disabled: %v", err)
		} else {
			w.jnl = jnl
		}
	}
	return w, nil
}

func (w *cliWorkspace) close() {
	if w.jnl != nil {
		w.jnl.Close()
	}
}

func (w *cliWorkspace) engine() (*flow.Engine, error) {
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating template renderer: %w", err)
	}
	var jnl flow.Journal
	if w.jnl != nil {
		jnl = w.jnl
	}
	return flow.NewEngine(w.repo, renderer, w.cfg, jnl), nil
}

// indicatorFlags registers the six indicator override flags and returns the
// label→value pointers for collection after Parse.
func indicatorFlags(fs *flag.FlagSet) map[string]*string {
	return map[string]*string{
		docs.FromVersion:   fs.String("from-version", "", "From version indicator (e.g. 1.4.0)"),
		docs.Understanding: fs.String("understanding", "", "Understanding indicator (e.g. 80%)"),
		docs.Confidence:    fs.String("confidence", "", "Confidence indicator (e.g. 70%)"),
		docs.Complexity:    fs.String("complexity", "", "Complexity indicator (e.g. M)"),
		docs.Theme:         fs.String("theme", "", "Theme indicator (e.g. CLI)"),
		docs.Progress:      fs.String("progress", "", "Progress indicator (e.g. 40%)"),
	}
}

func collectIndicators(flags map[string]*string) map[string]string {
	values := map[string]string{}
	for label, v := range flags {
		if *v != "" {
			values[label] = *v
		}
	}
	return values
}

func runNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	rootFlag := fs.String("root", "", "repository root")
	title := fs.String("title", "", "document title (required)")
	slug := fs.String("slug", "", "override the slug derived from the title")
	dryRun := fs.Bool("dry-run", false, "render without writing")
	indicators := indicatorFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: logics new <request|backlog|task|spec> --title <title>")
	}
	kind, err := docs.ParseKind(fs.Arg(0))
	if err != nil {
		return err
	}

	w, err := openCLI(*rootFlag)
	if err != nil {
		return err
	}
	defer w.close()
	engine, err := w.engine()
	if err != nil {
		return err
	}

	result, err := engine.New(flow.NewParams{
		Kind:       kind,
		Title:      *title,
		Slug:       *slug,
		Indicators: collectIndicators(indicators),
		DryRun:     *dryRun,
	})
	if err != nil {
		return err
	}

	if *dryRun {
		fmt.Printf("Would create %s at %s:\n\n%s", result.Ref, w.repo.RelPath(result.Path), result.Content)
		return nil
	}
	fmt.Printf("Created %s at %s\n", result.Ref, w.repo.RelPath(result.Path))
	return nil
}

func runPromote(args []string) error {
	fs := flag.NewFlagSet("promote", flag.ContinueOnError)
	rootFlag := fs.String("root", "", "repository root")
	target := fs.String("target", "", "target kind: backlog or task (required)")
	dryRun := fs.Bool("dry-run", false, "render without writing")
	indicators := indicatorFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *target == "" {
		return fmt.Errorf("usage: logics promote <doc_ref> --target <backlog|task>")
	}
	targetKind, err := docs.ParseKind(*target)
	if err != nil {
		return err
	}

	w, err := openCLI(*rootFlag)
	if err != nil {
		return err
	}
	defer w.close()
	engine, err := w.engine()
	if err != nil {
		return err
	}

	result, err := engine.Promote(flow.PromoteParams{
		SourceRef:  fs.Arg(0),
		Target:     targetKind,
		Indicators: collectIndicators(indicators),
		DryRun:     *dryRun,
	})
	if err != nil {
		return err
	}

	if *dryRun {
		fmt.Printf("Would promote %s to %s at %s:\n\n%s",
			result.SourceRef, result.Ref, w.repo.RelPath(result.Path), result.Content)
		return nil
	}
	fmt.Printf("Promoted %s to %s at %s\n", result.SourceRef, result.Ref, w.repo.RelPath(result.Path))
	return nil
}

func runSet(args []string) error {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	rootFlag := fs.String("root", "", "repository root")
	indicators := indicatorFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: logics set <doc_ref> [indicator flags]")
	}
	updates := collectIndicators(indicators)
	if len(updates) == 0 {
		return fmt.Errorf("no indicator flags given")
	}

	w, err := openCLI(*rootFlag)
	if err != nil {
		return err
	}
	defer w.close()

	doc, err := w.repo.Resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	doc.WriteIndicators(updates)
	if err := w.repo.Rewrite(doc); err != nil {
		return err
	}
	if w.jnl != nil {
		_ = w.jnl.Record("set", doc.Ref, describeUpdates(updates))
	}

	fmt.Printf("Updated %s: %s\n", doc.Ref, describeUpdates(updates))
	return nil
}

func describeUpdates(updates map[string]string) string {
	var parts []string
	for _, label := range docs.CanonicalOrder {
		if v, ok := updates[label]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", label, v))
		}
	}
	return strings.Join(parts, ", ")
}

func runFix(args []string) error {
	fs := flag.NewFlagSet("fix", flag.ContinueOnError)
	rootFlag := fs.String("root", "", "repository root")
	write := fs.Bool("write", false, "apply repairs (default: dry-run)")
	check := fs.Bool("check", false, "exit nonzero when repairs are needed")
	noProgress := fs.Bool("no-progress", false, "skip automatic Progress recomputation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := openCLI(*rootFlag)
	if err != nil {
		return err
	}
	defer w.close()

	var jnl flow.Journal
	if w.jnl != nil {
		jnl = w.jnl
	}
	result, err := fixer.New(w.repo, w.cfg, jnl).Run(fixer.Options{
		Write:        *write,
		AutoProgress: !*noProgress,
		Paths:        fs.Args(),
	})
	if err != nil {
		return err
	}

	if len(result.Changed) == 0 {
		fmt.Println("Nothing to fix.")
	} else {
		verb := "Would fix"
		if *write {
			verb = "Fixed"
		}
		fmt.Printf("%s %d document(s):\n", verb, len(result.Changed))
		for _, path := range result.Changed {
			fmt.Printf("  %s\n", path)
		}
	}
	for _, a := range result.Ambiguous {
		fmt.Printf("Ambiguous: %v\n", a)
	}
	for _, warn := range result.Warnings {
		fmt.Printf("Warning: %s: %v\n", warn.Path, warn.Err)
	}

	if *check && len(result.Changed) > 0 && !*write {
		return errChecksFailed
	}
	return nil
}

func runLint(args []string) error {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	rootFlag := fs.String("root", "", "repository root")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := openCLI(*rootFlag)
	if err != nil {
		return err
	}
	defer w.close()

	rep, err := lint.Run(w.repo)
	if err != nil {
		return err
	}
	for _, warn := range rep.Warnings {
		fmt.Printf("Warning: %s: %v\n", warn.Path, warn.Err)
	}
	if rep.OK() {
		fmt.Println("Lint: OK")
		return nil
	}
	fmt.Printf("Lint: %d issue(s)\n", len(rep.Issues))
	for _, issue := range rep.Issues {
		fmt.Printf("  %s\n", issue)
	}
	return errChecksFailed
}

func runIndex(args []string) error {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	rootFlag := fs.String("root", "", "repository root")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := openCLI(*rootFlag)
	if err != nil {
		return err
	}
	defer w.close()

	index, warnings, err := report.Index(w.repo)
	if err != nil {
		return err
	}
	indexPath, err := report.WriteFile(w.repo, report.IndexFile, index)
	if err != nil {
		return err
	}

	relations, relWarnings, err := report.Relations(w.repo)
	if err != nil {
		return err
	}
	relationsPath, err := report.WriteFile(w.repo, report.RelationsFile, relations)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", indexPath)
	fmt.Printf("Wrote %s\n", relationsPath)
	for _, warn := range append(warnings, relWarnings...) {
		fmt.Printf("Warning: %s: %v\n", warn.Path, warn.Err)
	}
	return nil
}

func runRelations(args []string) error {
	fs := flag.NewFlagSet("relations", flag.ContinueOnError)
	rootFlag := fs.String("root", "", "repository root")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := openCLI(*rootFlag)
	if err != nil {
		return err
	}
	defer w.close()

	relations, warnings, err := report.Relations(w.repo)
	if err != nil {
		return err
	}
	fmt.Print(relations)
	for _, warn := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", warn.Path, warn.Err)
	}
	return nil
}

func runDuplicates(args []string) error {
	fs := flag.NewFlagSet("duplicates", flag.ContinueOnError)
	rootFlag := fs.String("root", "", "repository root")
	threshold := fs.Float64("threshold", 0, "similarity threshold 0..1 (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := openCLI(*rootFlag)
	if err != nil {
		return err
	}
	defer w.close()

	t := *threshold
	if t == 0 {
		t = w.cfg.Duplicates.Threshold
	}
	pairs, warnings, err := report.Duplicates(w.repo, t)
	if err != nil {
		return err
	}
	fmt.Print(report.RenderDuplicates(pairs, t))
	for _, warn := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", warn.Path, warn.Err)
	}
	return nil
}

func runJournal(args []string) error {
	fs := flag.NewFlagSet("journal", flag.ContinueOnError)
	rootFlag := fs.String("root", "", "repository root")
	limit := fs.Int("limit", 20, "number of recent events to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := openCLI(*rootFlag)
	if err != nil {
		return err
	}
	defer w.close()
	if w.jnl == nil {
		return fmt.Errorf("journal is disabled or unavailable")
	}

	var events []journal.Event
	if fs.NArg() > 0 {
		events, err = w.jnl.History(fs.Arg(0))
	} else {
		events, err = w.jnl.Recent(*limit)
	}
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No journal events.")
		return nil
	}
	for _, e := range events {
		line := fmt.Sprintf("%s  %-8s %s", e.At, e.Op, e.Ref)
		if e.Detail != "" {
			line += "  (" + e.Detail + ")"
		}
		fmt.Println(line)
	}
	return nil
}
