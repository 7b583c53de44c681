package services

import (
	"gorm.io/gorm"

	"commitforge/internal/repositories"
	"commitforge/internal/store"
)

// Services aggregates the domain services backed by the database plus the
// host-facing ones (git, keyring). Fields use plural or role names to align
// with Go conventions seen in service/store containers.
type Services struct {
	Settings    AppSettingsService
	History     *store.HistoryStore
	Git         *GitService
	Keyring     *KeyringService
	Credentials *Credentials

	ModelSettings repositories.ModelSettingRepository
}

// NewServices constructs the service container using repositories backed by db.
func NewServices(db *gorm.DB) *Services {
	settingsRepo := repositories.NewAppSettingsRepository(db)
	recordRepo := repositories.NewCommitRecordRepository(db)
	modelSettingRepo := repositories.NewModelSettingRepository(db)
	keyring := NewKeyringService(modelSettingRepo)

	return &Services{
		Settings:      NewAppSettingsService(settingsRepo),
		History:       store.NewHistoryStore(recordRepo),
		Git:           NewGitService(),
		Keyring:       keyring,
		Credentials:   NewCredentials(keyring),
		ModelSettings: modelSettingRepo,
	}
}
