package diff

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"commitforge/internal/models"
)

const oversizedChangeLines = 800

// fileReport is one file's contribution to the merged analysis. Sub-analyzer
// outputs are unioned order-independently, so running files in parallel is
// safe and the merged result is deterministic.
type fileReport struct {
	language       string
	smells         []models.CodeSmell
	security       []models.SecurityFinding
	refactors      []models.RefactorSuggestion
	module         string
	domainContexts []string
	added          int
	deleted        int
}

// Analyzer derives a DiffAnalysis from a parsed document. The detection
// contracts are injectable; defaults are the built-in rule tables.
type Analyzer struct {
	smells    SmellDetector
	security  SecurityScanner
	refactors RefactorAdvisor
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithSmellDetector replaces the default smell detection contract.
func WithSmellDetector(d SmellDetector) Option {
	return func(a *Analyzer) { a.smells = d }
}

// WithSecurityScanner replaces the default security scanning contract.
func WithSecurityScanner(s SecurityScanner) Option {
	return func(a *Analyzer) { a.security = s }
}

// WithRefactorAdvisor replaces the default refactor advisory contract.
func WithRefactorAdvisor(r RefactorAdvisor) Option {
	return func(a *Analyzer) { a.refactors = r }
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		smells:    DetectSmells,
		security:  ScanSecurity,
		refactors: SuggestRefactors,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the per-file sub-analyzers over added and modified content
// only (deleted lines are never inspected) and merges the results. narrative
// is an optional advisory text scanned for ticket ids alongside the diff.
func (a *Analyzer) Analyze(ctx context.Context, doc *models.DiffDocument, narrative string) (*models.DiffAnalysis, error) {
	reports := make([]fileReport, len(doc.Files))

	g, ctx := errgroup.WithContext(ctx)
	for i := range doc.Files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = a.analyzeFile(&doc.Files[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := &models.DiffAnalysis{
		Fingerprint:       doc.Fingerprint,
		TotalFilesChanged: len(doc.Files),
		Languages:         map[string]int{},
	}

	var modules, contexts []string
	for _, rep := range reports {
		analysis.Languages[rep.language]++
		analysis.Smells = append(analysis.Smells, rep.smells...)
		analysis.SecurityFindings = append(analysis.SecurityFindings, rep.security...)
		analysis.RefactorSuggestions = append(analysis.RefactorSuggestions, rep.refactors...)
		analysis.TotalAddedLines += rep.added
		analysis.TotalDeletedLines += rep.deleted
		modules = append(modules, rep.module)
		contexts = append(contexts, rep.domainContexts...)
	}

	analysis.Modules = lo.Uniq(modules)
	sort.Strings(analysis.Modules)
	analysis.DomainContexts = lo.Uniq(contexts)
	sort.Strings(analysis.DomainContexts)
	analysis.TicketIDs = extractTicketIDs(doc.Raw, narrative)
	analysis.Preflight = preflight(doc, analysis)

	changed := analysis.TotalAddedLines + analysis.TotalDeletedLines
	analysis.Complexity = deriveComplexity(
		analysis.TotalFilesChanged,
		changed,
		len(analysis.Modules),
		analysis.HasCriticalFinding(),
	)
	return analysis, nil
}

// analyzeFile runs every sub-analyzer for one file. Deleted files contribute
// nothing beyond counts: their content is gone and is not scanned.
func (a *Analyzer) analyzeFile(file *models.FileChange) fileReport {
	var addedLines []models.LineChange
	rep := fileReport{module: moduleFor(file.Path)}
	for _, line := range file.Lines {
		switch line.Op {
		case models.LineAdd:
			rep.added++
			addedLines = append(addedLines, line)
		case models.LineDelete:
			rep.deleted++
		}
	}

	addedContent := make([]string, len(addedLines))
	for i, line := range addedLines {
		addedContent[i] = line.Content
	}

	rep.language = detectLanguage(file.Path, addedContent)
	rep.domainContexts = domainContextsFor(file.Path, addedContent)
	if file.Status != models.FileDeleted && len(addedLines) > 0 {
		rep.smells = a.smells(file.Path, addedLines)
		rep.security = a.security(file.Path, addedLines)
		rep.refactors = a.refactors(file.Path, addedLines)
	}
	return rep
}

func preflight(doc *models.DiffDocument, analysis *models.DiffAnalysis) models.PreflightChecks {
	checks := models.PreflightChecks{
		OversizedChange: analysis.TotalAddedLines+analysis.TotalDeletedLines > oversizedChangeLines,
	}
	for _, file := range doc.Files {
		path := strings.ToLower(file.Path)
		if strings.Contains(path, "_test.") || strings.Contains(path, ".spec.") || strings.Contains(path, ".test.") {
			checks.TouchesTests = true
		}
		switch {
		case strings.HasSuffix(path, "go.mod"), strings.HasSuffix(path, "go.sum"),
			strings.HasSuffix(path, "package.json"), strings.HasSuffix(path, "requirements.txt"),
			strings.HasSuffix(path, "cargo.toml"):
			checks.TouchesDependencies = true
		}
		if strings.Contains(path, ".github/workflows") || strings.Contains(path, "jenkinsfile") || strings.Contains(path, ".gitlab-ci") {
			checks.TouchesCI = true
		}
	}
	return checks
}
