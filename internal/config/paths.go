package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv lets the user move the app home away from ~/.local/share/pagestore.
const HomeEnv = "PAGESTORE_HOME"

type Paths struct {
	Home     string
	Config   string
	UserFile string
	DataDir  string
	LogDir   string
}

// ResolvePaths picks the app home (flag, then env, then default) and the default locations
// inside it. Only the home directory is created here.
func ResolvePaths(homeOverride, configOverride string) (*Paths, error) {
	home := homeOverride
	if home == "" {
		home = os.Getenv(HomeEnv)
	}

	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		home = filepath.Join(userHome, ".local", "share", "pagestore")
	}

	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("create home %s: %w", home, err)
	}

	cfgPath := configOverride
	if cfgPath == "" {
		cfgPath = filepath.Join(home, "config.yaml")
	}

	return &Paths{
		Home:     home,
		Config:   cfgPath,
		UserFile: filepath.Join(home, "users.json"),
		DataDir:  filepath.Join(home, "data"),
		LogDir:   filepath.Join(home, "log"),
	}, nil
}

// DatabaseFile is where the named database lives: <data_dir>/<db>/<db>.db.
func (c *Config) DatabaseFile(dbname string) string {
	return filepath.Join(c.DataDir, dbname, dbname+".db")
}

// LogFile is the per-database log: <log_dir>/<db>.log.
func (c *Config) LogFile(dbname string) string {
	return filepath.Join(c.LogDir, dbname+".log")
}
