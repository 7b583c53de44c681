package router

import "commitforge/internal/models"

// EstimateCost prices a generation from estimated input/output size times
// the model's per-kilochar coefficients.
func EstimateCost(cfg *models.ModelConfig, inputChars, outputChars int) float64 {
	in := float64(inputChars) / 1000.0 * cfg.Cost.InputPerKChars
	out := float64(outputChars) / 1000.0 * cfg.Cost.OutputPerKChars
	return in + out
}
