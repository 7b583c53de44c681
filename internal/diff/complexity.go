package diff

import (
	"commitforge/internal/models"
)

const (
	complexityMediumFloor = 8
	complexityHighFloor   = 20
)

// deriveComplexity computes the tier from file count, total changed lines,
// and the number of distinct affected modules. Any critical security finding
// forces high regardless of the score; AI-derived complexity signals are
// advisory only and never consulted here.
func deriveComplexity(files, changedLines, modules int, hasCritical bool) models.ComplexityTier {
	if hasCritical {
		return models.ComplexityHigh
	}
	score := files*2 + changedLines/25 + modules*3
	switch {
	case score < complexityMediumFloor:
		return models.ComplexityLow
	case score < complexityHighFloor:
		return models.ComplexityMedium
	default:
		return models.ComplexityHigh
	}
}
