package backend

import (
	"errors"
	"fmt"

	"sheetwallet/internal/config"
	"sheetwallet/internal/sheets/google"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}
	t := Type(appConfig.DataBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:          t,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		SpreadsheetID: appConfig.GoogleSheetID,
		Credentials: google.Credentials{
			Inline: google.ServiceAccount{
				Type:         appConfig.SAType,
				ProjectID:    appConfig.SAProjectID,
				PrivateKeyID: appConfig.SAPrivateKeyID,
				PrivateKey:   appConfig.SAPrivateKey,
				ClientEmail:  appConfig.SAClientEmail,
				ClientID:     appConfig.SAClientID,
			},
			JSON: appConfig.ServiceAccountJSON,
			File: appConfig.CredentialsFile,
		},
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	switch c.Type {
	case SQLite:
		if c.SQLiteDBPath == "" {
			return errors.New("SQLite database path is required for sqlite backend")
		}
	case Sheets:
		if c.SpreadsheetID == "" {
			return errors.New("spreadsheet id is required for sheets backend")
		}
	case Memory:
	default:
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	return nil
}
