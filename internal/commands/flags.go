package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/stride/internal/core/config"
	"github.com/hay-kot/stride/internal/core/credential"
	"github.com/hay-kot/stride/internal/remote"
	"github.com/hay-kot/stride/internal/store/jsonfile"
	"github.com/hay-kot/stride/internal/stride"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	APIURL     string
	Token      string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Credentials is the persisted token store used by `stride token`
	Credentials *jsonfile.CredentialStore

	// Creds resolves the active token: --token first, then the store
	Creds credential.Provider

	// Client is the API client shared by the service and diagnostics
	Client *remote.Client

	// Service coordinates the feed, the catalog and mutations
	Service *stride.Service
}

// TokenSource describes where the active token comes from.
func (f *Flags) TokenSource() string {
	if f.Token != "" {
		return "--token / STRIDE_TOKEN"
	}
	if f.Credentials != nil {
		return f.Credentials.Path()
	}
	return ""
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "stride", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "stride")
}
