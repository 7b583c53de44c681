package diff

import (
	"strings"
)

// containerDirs are path prefixes that say nothing about the module itself.
var containerDirs = map[string]bool{
	"src":      true,
	"lib":      true,
	"internal": true,
	"pkg":      true,
	"app":      true,
	"apps":     true,
	"cmd":      true,
	"packages": true,
}

// moduleFor infers the affected module from a file path: the first
// meaningful directory segment, skipping container directories.
func moduleFor(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 {
		return "root"
	}
	for _, seg := range segments[:len(segments)-1] {
		if !containerDirs[seg] {
			return seg
		}
	}
	return segments[len(segments)-2]
}

var domainKeywords = []struct {
	context  string
	keywords []string
}{
	{"authentication", []string{"auth", "login", "session", "oauth", "jwt"}},
	{"payments", []string{"payment", "billing", "invoice", "checkout"}},
	{"persistence", []string{"database", "migration", "repository", "sql", "schema"}},
	{"api", []string{"handler", "endpoint", "route", "controller", "grpc"}},
	{"interface", []string{"component", "view", "widget", "layout", "css"}},
	{"testing", []string{"_test", ".spec.", ".test.", "fixture", "mock"}},
	{"configuration", []string{"config", "settings", ".env", "flags"}},
	{"security", []string{"crypto", "certificate", "permission", "sanitize"}},
	{"caching", []string{"cache", "memoize", "ttl"}},
}

// domainContextsFor infers high-level domain contexts from a file path and
// its added content.
func domainContextsFor(path string, added []string) []string {
	haystack := strings.ToLower(path + "\n" + strings.Join(added, "\n"))
	var out []string
	for _, entry := range domainKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(haystack, kw) {
				out = append(out, entry.context)
				break
			}
		}
	}
	return out
}
