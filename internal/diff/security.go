package diff

import (
	"regexp"

	"commitforge/internal/models"
)

// SecurityScanner is the contract for vulnerability detection over the added
// lines of one file. Implementations must be pure.
type SecurityScanner func(path string, added []models.LineChange) []models.SecurityFinding

type securityRule struct {
	rule        string
	description string
	severity    models.Severity
	match       *regexp.Regexp
}

var securityRules = []securityRule{
	{"private-key", "private key material committed", models.SeverityCritical,
		regexp.MustCompile(`-----BEGIN (RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`)},
	{"aws-access-key", "AWS access key id committed", models.SeverityCritical,
		regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{"hardcoded-secret", "credential assigned from a string literal", models.SeverityHigh,
		regexp.MustCompile(`(?i)\b(password|passwd|api[_-]?key|secret|auth[_-]?token)\b\s*[:=]\s*["'][^"']{4,}["']`)},
	{"eval-call", "dynamic code evaluation", models.SeverityHigh,
		regexp.MustCompile(`\beval\s*\(`)},
	{"shell-exec", "shell command execution from code", models.SeverityMedium,
		regexp.MustCompile(`os\.system\s*\(|child_process|exec\.Command\(`)},
	{"raw-html", "direct HTML injection sink", models.SeverityMedium,
		regexp.MustCompile(`\binnerHTML\s*=|dangerouslySetInnerHTML`)},
	{"insecure-url", "plaintext http URL", models.SeverityLow,
		regexp.MustCompile(`http://[^\s"']+`)},
}

// ScanSecurity is the default SecurityScanner: a fixed severity-tagged rule
// table over added lines only.
func ScanSecurity(path string, added []models.LineChange) []models.SecurityFinding {
	var out []models.SecurityFinding
	for _, line := range added {
		for _, rule := range securityRules {
			if rule.match.MatchString(line.Content) {
				out = append(out, models.SecurityFinding{
					File:        path,
					Line:        line.Number,
					Rule:        rule.rule,
					Description: rule.description,
					Severity:    rule.severity,
				})
			}
		}
	}
	return out
}
