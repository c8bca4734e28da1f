// Package apikey retrieves the Gemini API key. Sources, in order: the macOS
// Keychain when a service/account pair is configured, then the environment
// (with .env files loaded via godotenv first).
package apikey

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"
)

// EnvVar is the environment variable holding the API key.
const EnvVar = "GEMINI_API_KEY"

// Get resolves the API key. With keychain credentials set, Keychain failure
// falls back to the environment rather than aborting.
func Get(keychainService, keychainAccount string) (string, error) {
	if keychainService != "" && keychainAccount != "" {
		key, err := fromKeychain(keychainService, keychainAccount)
		if err == nil {
			return key, nil
		}
	}
	return fromEnv()
}

func fromEnv() (string, error) {
	// A .env in the working directory is a convenience for local runs;
	// missing is fine, the real environment wins either way.
	_ = godotenv.Load()

	key := os.Getenv(EnvVar)
	if key == "" {
		return "", fmt.Errorf("apikey: %s is not set; export it or add it to .env", EnvVar)
	}
	return key, nil
}

// fromKeychain shells out to the macOS security tool.
func fromKeychain(service, account string) (string, error) {
	out, err := exec.Command(
		"security", "find-generic-password",
		"-a", account, "-s", service, "-w",
	).Output()
	if err != nil {
		return "", fmt.Errorf("apikey: keychain lookup for %s/%s: %w", service, account, err)
	}
	key := strings.TrimSpace(string(out))
	if key == "" {
		return "", fmt.Errorf("apikey: empty key in keychain entry %s/%s", service, account)
	}
	return key, nil
}
