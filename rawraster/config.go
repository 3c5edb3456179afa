package rawraster

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// TriState is the result of reading one of this package's boolean
// environment-variable options: most of them have a real default that
// only applies when the variable is unset, so "false" and "unset" must
// stay distinguishable.
type TriState int

const (
	Unset TriState = iota
	True
	False
)

// Config holds the options this package reads from the environment:
// GDAL_ONE_BIG_READ forces (True) or forbids (False) the direct-I/O
// fast path regardless of CanUseDirectIO's own heuristic; RAW_CHECK_FILE_SIZE
// forces or forbids the pre-open file-size sanity check regardless of its
// own trigger heuristic.
type Config struct {
	OneBigRead    TriState
	CheckFileSize TriState
}

var (
	configMu sync.RWMutex
	config   = readConfigFromEnv()
)

func readConfigFromEnv() Config {
	return Config{
		OneBigRead:    parseTriState(os.Getenv("GDAL_ONE_BIG_READ")),
		CheckFileSize: parseTriState(os.Getenv("RAW_CHECK_FILE_SIZE")),
	}
}

func parseTriState(v string) TriState {
	if v == "" {
		return Unset
	}
	if b, err := strconv.ParseBool(v); err == nil {
		if b {
			return True
		}
		return False
	}
	switch strings.ToUpper(v) {
	case "YES", "ON":
		return True
	case "NO", "OFF":
		return False
	}
	return Unset
}

// GetConfig returns the package's current configuration.
func GetConfig() Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

// SetConfig overrides the package's configuration without touching the
// process environment, for tests that need to pin GDAL_ONE_BIG_READ or
// RAW_CHECK_FILE_SIZE deterministically.
func SetConfig(c Config) {
	configMu.Lock()
	defer configMu.Unlock()
	config = c
}

// ResetConfig reloads the configuration from the current environment,
// undoing any SetConfig override.
func ResetConfig() {
	SetConfig(readConfigFromEnv())
}
