package services

import (
	"fmt"
	"os"
	"strings"
)

var providerEnvVars = map[string]string{
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// Credentials resolves provider API keys, preferring the process environment
// over the OS keyring so headless runs work without a credential store.
type Credentials struct {
	keyring *KeyringService
}

func NewCredentials(keyring *KeyringService) *Credentials {
	return &Credentials{keyring: keyring}
}

func (c *Credentials) APIKey(provider string) (string, error) {
	envVar, ok := providerEnvVars[provider]
	if !ok {
		envVar = strings.ToUpper(provider) + "_API_KEY"
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	if c.keyring != nil {
		if key, err := c.keyring.APIKey(provider); err == nil && key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("no API key for provider %q: set %s or store one in the keyring", provider, envVar)
}
