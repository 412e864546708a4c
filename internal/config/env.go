package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/jsvensson/oklchpicker/internal/color"
)

// Environment variables read by EnvDefaults.
const (
	EnvConfig    = "OKLCHPICK_CONFIG"
	EnvDelta     = "OKLCHPICK_DELTA"
	EnvCacheSize = "OKLCHPICK_CACHE_SIZE"
	EnvVerbose   = "OKLCHPICK_VERBOSE"
)

// Env holds defaults taken from the environment and an optional .env file in
// the working directory. Command-line flags override them.
type Env struct {
	ConfigPath string
	Delta      float64
	CacheSize  int
	Verbosity  int
}

// EnvDefaults loads .env if present, then reads the OKLCHPICK_* variables.
// Unset variables keep their built-in defaults; malformed ones are errors.
func EnvDefaults() (Env, error) {
	_ = godotenv.Load()

	env := Env{
		ConfigPath: os.Getenv(EnvConfig),
		Delta:      color.DefaultDelta,
		CacheSize:  color.DefaultCacheSize,
	}

	var err error
	if env.Delta, err = getEnvFloat(EnvDelta, env.Delta); err != nil {
		return Env{}, err
	}
	if !(env.Delta > 0) {
		return Env{}, fmt.Errorf("%s must be > 0", EnvDelta)
	}
	if env.CacheSize, err = getEnvInt(EnvCacheSize, env.CacheSize); err != nil {
		return Env{}, err
	}
	if env.CacheSize <= 0 {
		return Env{}, fmt.Errorf("%s must be > 0", EnvCacheSize)
	}
	if env.Verbosity, err = getEnvInt(EnvVerbose, 0); err != nil {
		return Env{}, err
	}
	return env, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
