package models

// GenerationParams are the sampling parameters passed to a provider for one
// generation. Zero values mean "provider default".
type GenerationParams struct {
	Temperature     float32  `json:"temperature"`
	MaxOutputTokens int      `json:"maxOutputTokens"`
	TopP            float32  `json:"topP,omitempty"`
	TopK            int      `json:"topK,omitempty"`
	Stop            []string `json:"stop,omitempty"`
}

// CostCoefficients price a generation by estimated input/output size.
type CostCoefficients struct {
	InputPerKChars  float64 `json:"inputPerKChars"`
	OutputPerKChars float64 `json:"outputPerKChars"`
}

// ModelConfig describes a single generative model option. It is read-only
// during a generation; enablement is the only mutable toggle and is persisted
// separately via ModelSetting.
type ModelConfig struct {
	Key          string           `json:"key"`
	DisplayName  string           `json:"displayName"`
	APIName      string           `json:"apiName"`
	ProviderID   string           `json:"providerId"`
	ProviderName string           `json:"providerName"`
	Params       GenerationParams `json:"params"`
	Persona      string           `json:"persona,omitempty"`
	Cost         CostCoefficients `json:"cost"`
	Capabilities []string         `json:"capabilities,omitempty"`
	Enabled      bool             `json:"enabled"`
}

// ModelConfigGroup groups models by their provider for presentation.
type ModelConfigGroup struct {
	ProviderID   string        `json:"providerId"`
	ProviderName string        `json:"providerName"`
	Models       []ModelConfig `json:"models"`
}
