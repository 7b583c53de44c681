package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commitforge/internal/enhance"
	"commitforge/internal/models"
	"commitforge/internal/repositories"
)

type AppSettingsService interface {
	Get() (*models.AppSettings, error)
	Update(settings *models.AppSettings) (*models.AppSettings, error)
	EnhanceConfig() (enhance.Config, error)
}

type appSettingsService struct {
	appSettings repositories.AppSettingsRepository
}

func NewAppSettingsService(appSettings repositories.AppSettingsRepository) AppSettingsService {
	return &appSettingsService{appSettings: appSettings}
}

func (s *appSettingsService) Get() (*models.AppSettings, error) {
	return s.appSettings.Get(context.Background())
}

func (s *appSettingsService) Update(settings *models.AppSettings) (*models.AppSettings, error) {
	if settings == nil {
		return nil, errors.New("settings are required")
	}
	if settings.PreferredFormat != "conventional" && settings.PreferredFormat != "plain" {
		return nil, fmt.Errorf("preferred format must be 'conventional' or 'plain', got %q", settings.PreferredFormat)
	}

	current, err := s.appSettings.Get(context.Background())
	if err != nil {
		return nil, err
	}

	current.DefaultModelKey = settings.DefaultModelKey
	current.PreferredFormat = settings.PreferredFormat
	current.Persona = settings.Persona
	current.EnhanceFormat = settings.EnhanceFormat
	current.EnhanceGrammar = settings.EnhanceGrammar
	current.EnhanceEmoji = settings.EnhanceEmoji
	current.EnhanceSentiment = settings.EnhanceSentiment
	current.EnhanceTone = settings.EnhanceTone
	current.UpdatedAt = time.Now()

	if err := s.appSettings.Update(context.Background(), current); err != nil {
		return nil, err
	}

	return current, nil
}

// EnhanceConfig projects the stored preferences onto the enhancement chain.
func (s *appSettingsService) EnhanceConfig() (enhance.Config, error) {
	settings, err := s.Get()
	if err != nil {
		return enhance.Config{}, err
	}
	return enhance.Config{
		Format:          settings.EnhanceFormat,
		Grammar:         settings.EnhanceGrammar,
		Emoji:           settings.EnhanceEmoji,
		Sentiment:       settings.EnhanceSentiment,
		Tone:            settings.EnhanceTone,
		PreferredFormat: settings.PreferredFormat,
	}, nil
}
