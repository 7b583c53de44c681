package models

// Severity ranks a security finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ComplexityTier is the derived complexity bucket for a change.
type ComplexityTier string

const (
	ComplexityLow    ComplexityTier = "low"
	ComplexityMedium ComplexityTier = "medium"
	ComplexityHigh   ComplexityTier = "high"
)

// SecurityFinding is one security-relevant match in added content.
type SecurityFinding struct {
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Rule        string   `json:"rule"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// CodeSmell is one lint-style finding in added content.
type CodeSmell struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Rule        string `json:"rule"`
	Description string `json:"description"`
}

// RefactorSuggestion is an advisory improvement hint for a file.
type RefactorSuggestion struct {
	File        string `json:"file"`
	Description string `json:"description"`
}

// PreflightChecks are cheap boolean checks over the change set, surfaced to
// the caller before any generation happens.
type PreflightChecks struct {
	TouchesTests        bool `json:"touchesTests"`
	TouchesDependencies bool `json:"touchesDependencies"`
	TouchesCI           bool `json:"touchesCi"`
	OversizedChange     bool `json:"oversizedChange"`
}

// DiffAnalysis is the derived, immutable analysis of a DiffDocument, keyed by
// the same fingerprint. It is computed at most once per fingerprint while the
// cache entry is fresh.
type DiffAnalysis struct {
	Fingerprint         string               `json:"fingerprint"`
	TotalFilesChanged   int                  `json:"totalFilesChanged"`
	TotalAddedLines     int                  `json:"totalAddedLines"`
	TotalDeletedLines   int                  `json:"totalDeletedLines"`
	Languages           map[string]int       `json:"languages"`
	Smells              []CodeSmell          `json:"smells"`
	SecurityFindings    []SecurityFinding    `json:"securityFindings"`
	Modules             []string             `json:"modules"`
	DomainContexts      []string             `json:"domainContexts"`
	RefactorSuggestions []RefactorSuggestion `json:"refactorSuggestions"`
	Complexity          ComplexityTier       `json:"complexity"`
	TicketIDs           []string             `json:"ticketIds"`
	Preflight           PreflightChecks      `json:"preflight"`
}

// HasCriticalFinding reports whether any security finding is critical.
func (a *DiffAnalysis) HasCriticalFinding() bool {
	for _, f := range a.SecurityFindings {
		if f.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
