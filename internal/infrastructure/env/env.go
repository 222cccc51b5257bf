package env

import (
	"fmt"
	"os"
	"strconv"

	"fairness-auditor/internal/application/port/output"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

type EnvService struct {
	AppEnv string
	// Loaded lists the env files that were found and applied.
	Loaded []string
}

// NewEnvService loads .env, then .env.<APP_ENV> on top of it. Missing files
// are not an error.
func NewEnvService() *EnvService {
	return NewEnvServiceIn(".")
}

func NewEnvServiceIn(dir string) *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	svc := &EnvService{AppEnv: appEnv}

	base := dir + "/.env"
	if err := godotenv.Load(base); err == nil {
		svc.Loaded = append(svc.Loaded, base)
	}

	envFile := fmt.Sprintf("%s/.env.%s", dir, appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		svc.Loaded = append(svc.Loaded, envFile)
	}

	return svc
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) Require(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("ENV %s is missing", key)
	}
	return val, nil
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
