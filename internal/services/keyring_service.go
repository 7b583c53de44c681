package services

import (
	"errors"

	"github.com/samber/lo"
	"github.com/zalando/go-keyring"

	"commitforge/internal/models"
	"commitforge/internal/repositories"
)

const serviceName = "commitforge"

// KeyringService stores provider API keys in the OS credential store. Keys
// are passed through opaque: never logged, never persisted outside the
// keyring, never inspected beyond an emptiness check. The provider universe
// comes from the persisted model settings, so no sidecar state is kept.
type KeyringService struct {
	settings repositories.ModelSettingRepository
}

func NewKeyringService(settings repositories.ModelSettingRepository) *KeyringService {
	return &KeyringService{settings: settings}
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}
	return keyring.Set(serviceName, provider, string(apiKey))
}

func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	return keyring.Get(serviceName, provider)
}

// APIKey satisfies the router's credential source contract.
func (s *KeyringService) APIKey(provider string) (string, error) {
	return s.GetApiKey(provider)
}

func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}
	return keyring.Delete(serviceName, provider)
}

// ListApiKeys returns a descriptor for every known provider that has a key
// in the keyring; key material itself is never returned.
func (s *KeyringService) ListApiKeys() ([]map[string]string, error) {
	providers, err := s.knownProviders()
	if err != nil {
		return nil, err
	}

	var results []map[string]string
	for _, provider := range providers {
		if _, err := keyring.Get(serviceName, provider); err != nil {
			continue
		}
		results = append(results, map[string]string{
			"provider":    provider,
			"label":       provider + " API key",
			"description": "API key for " + provider + " used by Commitforge",
		})
	}
	return results, nil
}

// knownProviders derives the provider list from the persisted model
// settings; the registry seeds a setting for every catalog model at startup.
func (s *KeyringService) knownProviders() ([]string, error) {
	if s.settings == nil {
		return nil, nil
	}
	settings, err := s.settings.List()
	if err != nil {
		return nil, err
	}
	providers := lo.Map(settings, func(setting models.ModelSetting, _ int) string {
		return setting.Provider
	})
	return lo.Uniq(providers), nil
}
