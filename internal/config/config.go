package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type envConfig struct {
	APP_PORT                string
	LOG_FILE_PATH           string
	LOG_LEVEL               string
	MAX_UPLOAD_SIZE         string
	CONVERSION_PROFILE_PATH string
}

var DefaultEnvConfig = &envConfig{
	APP_PORT:        "8080",
	LOG_LEVEL:       "info",
	MAX_UPLOAD_SIZE: "32M",
}

// LoadEnvConfig reads .env (if present) and the process environment into
// DefaultEnvConfig. Values already set in the environment win over .env.
func LoadEnvConfig(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return errors.Wrapf(err, "load %s", f)
		}
	}

	cfg := *DefaultEnvConfig
	cfg.APP_PORT = firstNonEmpty(os.Getenv("APP_PORT"), os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT"), cfg.APP_PORT)
	cfg.LOG_FILE_PATH = firstNonEmpty(os.Getenv("LOG_FILE_PATH"), cfg.LOG_FILE_PATH)
	cfg.LOG_LEVEL = strings.ToLower(firstNonEmpty(os.Getenv("LOG_LEVEL"), cfg.LOG_LEVEL))
	cfg.MAX_UPLOAD_SIZE = firstNonEmpty(os.Getenv("MAX_UPLOAD_SIZE"), cfg.MAX_UPLOAD_SIZE)
	cfg.CONVERSION_PROFILE_PATH = firstNonEmpty(os.Getenv("CONVERSION_PROFILE_PATH"), cfg.CONVERSION_PROFILE_PATH)

	if _, err := strconv.Atoi(cfg.APP_PORT); err != nil {
		return errors.Errorf("invalid APP_PORT %q", cfg.APP_PORT)
	}

	*DefaultEnvConfig = cfg
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
