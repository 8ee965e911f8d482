package core

import (
	"os"
	"path/filepath"
)

// DefaultOutputFile is written to the working directory unless overridden.
const DefaultOutputFile = "newsletter_context.json"

type Paths struct {
	DataDir    string
	LogFile    string
	ConfigFile string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		dataDir := filepath.Join(homeDir, ".newsletter")
		if override := os.Getenv("NEWSLETTER_HOME"); override != "" {
			dataDir = override
		}

		defaultPaths = &Paths{
			DataDir:    dataDir,
			LogFile:    filepath.Join(dataDir, "newsletter.log"),
			ConfigFile: filepath.Join(dataDir, "config.yaml"),
		}

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
