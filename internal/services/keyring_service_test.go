package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"commitforge/internal/models"
)

// modelSettingsStub is an in-memory ModelSettingRepository.
type modelSettingsStub struct {
	settings []models.ModelSetting
}

func (s *modelSettingsStub) List() ([]models.ModelSetting, error) {
	return s.settings, nil
}

func (s *modelSettingsStub) GetByKey(modelKey string) (*models.ModelSetting, error) {
	for _, setting := range s.settings {
		if setting.ModelKey == modelKey {
			copied := setting
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *modelSettingsStub) Upsert(modelKey, provider string, enabled bool) (*models.ModelSetting, error) {
	setting := models.ModelSetting{ModelKey: modelKey, Provider: provider, Enabled: enabled}
	s.settings = append(s.settings, setting)
	return &setting, nil
}

func (s *modelSettingsStub) SetProviderEnabled(provider string, enabled bool) error {
	for i := range s.settings {
		if s.settings[i].Provider == provider {
			s.settings[i].Enabled = enabled
		}
	}
	return nil
}

func TestKeyringStoreListDelete(t *testing.T) {
	keyring.MockInit()
	svc := NewKeyringService(&modelSettingsStub{settings: []models.ModelSetting{
		{ModelKey: "anthropic|claude-haiku-4-5", Provider: "anthropic", Enabled: true},
		{ModelKey: "anthropic|claude-sonnet-4-5", Provider: "anthropic", Enabled: true},
		{ModelKey: "openai|gpt-5-mini", Provider: "openai", Enabled: true},
	}})

	require.NoError(t, svc.StoreApiKey("anthropic", []byte("test-key")))

	// Listing names the provider once and never the key material.
	entries, err := svc.ListApiKeys()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "anthropic", entries[0]["provider"])
	for _, v := range entries[0] {
		assert.NotContains(t, v, "test-key")
	}

	key, err := svc.GetApiKey("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "test-key", key)

	require.NoError(t, svc.DeleteApiKey("anthropic"))
	entries, err = svc.ListApiKeys()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestKeyringStoreValidation(t *testing.T) {
	keyring.MockInit()
	svc := NewKeyringService(nil)

	assert.Error(t, svc.StoreApiKey("", []byte("k")))
	assert.Error(t, svc.StoreApiKey("anthropic", nil))
	_, err := svc.GetApiKey("")
	assert.Error(t, err)
	assert.Error(t, svc.DeleteApiKey(""))
}
