package router

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"commitforge/internal/assets"
	"commitforge/internal/models"
	"commitforge/internal/repositories"
)

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	Models      []rawModel `json:"models"`
}

type rawModel struct {
	DisplayName         string   `json:"displayName"`
	APIName             string   `json:"apiName"`
	Temperature         float32  `json:"temperature"`
	MaxOutputTokens     int      `json:"maxOutputTokens"`
	TopP                float32  `json:"topP,omitempty"`
	TopK                int      `json:"topK,omitempty"`
	Stop                []string `json:"stop,omitempty"`
	InputCostPerKChars  float64  `json:"inputCostPerKChars"`
	OutputCostPerKChars float64  `json:"outputCostPerKChars"`
	Capabilities        []string `json:"capabilities,omitempty"`
}

// Registry holds the discovered model configurations: built-in defaults from
// the embedded catalog plus externally supplied custom entries. Enablement
// toggles are persisted through the settings repository when one is present.
type Registry struct {
	repo repositories.ModelSettingRepository

	mu            sync.RWMutex
	providerOrder []string
	providerNames map[string]string
	configs       map[string]*models.ModelConfig
	settings      map[string]bool
}

// NewRegistry parses the embedded catalog and seeds enablement from repo.
// repo may be nil, in which case every model is enabled and toggles do not
// survive restarts.
func NewRegistry(repo repositories.ModelSettingRepository) (*Registry, error) {
	r := &Registry{
		repo:          repo,
		providerNames: make(map[string]string),
		configs:       make(map[string]*models.ModelConfig),
		settings:      make(map[string]bool),
	}

	var parsed rawModelFile
	if err := json.Unmarshal(assets.ModelsData, &parsed); err != nil {
		return nil, fmt.Errorf("parse models asset: %w", err)
	}

	for _, provider := range parsed.Providers {
		providerID := strings.TrimSpace(provider.ID)
		if providerID == "" {
			continue
		}
		providerName := strings.TrimSpace(provider.DisplayName)
		r.providerNames[providerID] = providerName
		r.providerOrder = append(r.providerOrder, providerID)
		for _, mdl := range provider.Models {
			cfg := &models.ModelConfig{
				Key:          modelKey(providerID, mdl.APIName),
				DisplayName:  strings.TrimSpace(mdl.DisplayName),
				APIName:      strings.TrimSpace(mdl.APIName),
				ProviderID:   providerID,
				ProviderName: providerName,
				Params: models.GenerationParams{
					Temperature:     mdl.Temperature,
					MaxOutputTokens: mdl.MaxOutputTokens,
					TopP:            mdl.TopP,
					TopK:            mdl.TopK,
					Stop:            mdl.Stop,
				},
				Cost: models.CostCoefficients{
					InputPerKChars:  mdl.InputCostPerKChars,
					OutputPerKChars: mdl.OutputCostPerKChars,
				},
				Capabilities: mdl.Capabilities,
			}
			r.configs[cfg.Key] = cfg
		}
	}

	if err := r.seedSettings(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) seedSettings() error {
	if r.repo == nil {
		for key := range r.configs {
			r.settings[key] = true
		}
		return nil
	}
	existing, err := r.repo.List()
	if err != nil {
		return fmt.Errorf("load model settings: %w", err)
	}
	for _, setting := range existing {
		r.settings[setting.ModelKey] = setting.Enabled
	}
	for key, cfg := range r.configs {
		if _, ok := r.settings[key]; !ok {
			if _, err := r.repo.Upsert(key, cfg.ProviderID, true); err != nil {
				return fmt.Errorf("seed model setting for %s: %w", key, err)
			}
			r.settings[key] = true
		}
	}
	return nil
}

// Register adds a custom model configuration supplied from outside the
// embedded catalog. A key collision with an existing entry is an error.
func (r *Registry) Register(cfg *models.ModelConfig) error {
	if cfg == nil {
		return fmt.Errorf("model config is required")
	}
	if strings.TrimSpace(cfg.APIName) == "" || strings.TrimSpace(cfg.ProviderID) == "" {
		return fmt.Errorf("model api name and provider are required")
	}
	if cfg.Key == "" {
		cfg.Key = modelKey(cfg.ProviderID, cfg.APIName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.configs[cfg.Key]; exists {
		return fmt.Errorf("model %s already registered", cfg.Key)
	}
	if _, known := r.providerNames[cfg.ProviderID]; !known {
		r.providerNames[cfg.ProviderID] = cfg.ProviderName
		r.providerOrder = append(r.providerOrder, cfg.ProviderID)
	}
	r.configs[cfg.Key] = cfg
	r.settings[cfg.Key] = true
	if r.repo != nil {
		if _, err := r.repo.Upsert(cfg.Key, cfg.ProviderID, true); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a copy of the configuration for key, with the current
// enablement applied. The copy is read-only for the duration of a generation.
func (r *Registry) Get(key string) (*models.ModelConfig, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, &ConfigurationError{Reason: "model key is required"}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[key]
	if !ok {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("model %s not found", key)}
	}
	out := *cfg
	out.Enabled = r.settings[key]
	return &out, nil
}

// ListGroups returns every known model grouped by provider, in catalog order.
func (r *Registry) ListGroups() []models.ModelConfigGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make([]models.ModelConfigGroup, 0, len(r.providerOrder))
	for _, providerID := range r.providerOrder {
		group := models.ModelConfigGroup{
			ProviderID:   providerID,
			ProviderName: r.providerName(providerID),
		}
		for _, cfg := range r.configs {
			if cfg.ProviderID != providerID {
				continue
			}
			out := *cfg
			out.Enabled = r.settings[cfg.Key]
			group.Models = append(group.Models, out)
		}
		sort.SliceStable(group.Models, func(i, j int) bool {
			return strings.ToLower(group.Models[i].DisplayName) < strings.ToLower(group.Models[j].DisplayName)
		})
		groups = append(groups, group)
	}
	return groups
}

// SetModelEnabled flips one model's enablement and persists it.
func (r *Registry) SetModelEnabled(key string, enabled bool) (*models.ModelConfig, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("model key is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[key]
	if !ok {
		return nil, fmt.Errorf("model %s not found", key)
	}
	if r.repo != nil {
		if _, err := r.repo.Upsert(key, cfg.ProviderID, enabled); err != nil {
			return nil, err
		}
	}
	r.settings[key] = enabled
	out := *cfg
	out.Enabled = enabled
	return &out, nil
}

// SetProviderEnabled flips every model of a provider and persists it.
func (r *Registry) SetProviderEnabled(provider string, enabled bool) ([]models.ModelConfig, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.repo != nil {
		if err := r.repo.SetProviderEnabled(provider, enabled); err != nil {
			return nil, err
		}
	}
	var updated []models.ModelConfig
	for _, cfg := range r.configs {
		if cfg.ProviderID != provider {
			continue
		}
		r.settings[cfg.Key] = enabled
		out := *cfg
		out.Enabled = enabled
		updated = append(updated, out)
	}
	sort.SliceStable(updated, func(i, j int) bool {
		return strings.ToLower(updated[i].DisplayName) < strings.ToLower(updated[j].DisplayName)
	})
	return updated, nil
}

func (r *Registry) providerName(providerID string) string {
	if name, ok := r.providerNames[providerID]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return providerID
}

func modelKey(providerID, apiName string) string {
	return strings.TrimSpace(providerID) + "|" + strings.TrimSpace(apiName)
}
