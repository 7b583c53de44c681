package assets

import _ "embed"

// ModelsData holds the raw JSON catalog of built-in generative models,
// including sampling parameters and cost coefficients per model.
//
//go:embed models.json
var ModelsData []byte
