package homedir

import (
	"os"
	"os/user"
	"path/filepath"
)

// Get returns the current user's home directory.
func Get() string {
	h := os.Getenv("HOME")
	if h != "" {
		return h
	}

	usr, err := user.Current()
	if err != nil {
		panic(err)
	}
	return usr.HomeDir
}

// ConfigFile returns the default configuration file path,
// $XDG_CONFIG_HOME/jobmail/config.yaml or ~/.config/jobmail/config.yaml.
func ConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(Get(), ".config")
	}
	return filepath.Join(dir, "jobmail", "config.yaml")
}
