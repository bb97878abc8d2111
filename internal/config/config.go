package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
)

type Config struct {
	GitHubToken  string `json:"github_token"`
	GitHubUser   string `json:"github_user,omitempty"`
	GeminiAPIKey string `json:"gemini_api_key"`
	GeminiModel  string `json:"gemini_model" validate:"required"`
	Language     string `json:"summary_language" validate:"oneof=es en pt fr"`
	MaxPRs       int    `json:"max_prs_limit" validate:"min=1,max=500"`
	MaxCommits   int    `json:"max_commits_limit" validate:"min=1,max=500"`
	Debug        bool   `json:"debug"`
	PathFile     string `json:"-"`
}

const (
	DirName  = ".devrecap"
	FileName = "config.json"

	defaultLang        = "es"
	defaultMaxPRs      = 50
	defaultMaxCommits  = 50
	defaultGeminiModel = "gemini-2.0-flash"
)

// Environment variables that take precedence over the config file.
const (
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvLanguage    = "DEVRECAP_LANGUAGE"
)

// Keys lists the settable configuration keys.
var Keys = []string{
	"github_token",
	"github_user",
	"gemini_api_key",
	"gemini_model",
	"summary_language",
	"max_prs_limit",
	"max_commits_limit",
	"debug",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Dir returns the directory holding the config file and the local state.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error al obtener el directorio home: %w", err)
	}
	if home == "" {
		return "", errors.New("el directorio home no está definido")
	}
	return filepath.Join(home, DirName), nil
}

// LoadEnv reads a .env file from the working directory when present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}
}

// LoadConfig reads the config file, creating it with defaults when missing,
// and applies environment overrides. path is either a .json file or a base
// directory under which DirName is used; empty means the home directory.
func LoadConfig(path string) (*Config, error) {
	config, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFile reads the config file without environment overrides.
func LoadFile(path string) (*Config, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	} else if err != nil {
		return nil, fmt.Errorf("error al verificar el archivo de configuración: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error al leer el archivo de configuración: %w", err)
	}

	config := defaultConfig(configPath)
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error al decodificar el archivo JSON: %w", err)
	}
	config.PathFile = configPath

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("la configuración cargada no es válida: %w", err)
	}

	return config, nil
}

func resolvePath(path string) (string, error) {
	if filepath.Ext(path) == ".json" {
		return path, nil
	}
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, FileName), nil
	}
	return filepath.Join(path, DirName, FileName), nil
}

func defaultConfig(path string) *Config {
	return &Config{
		GeminiModel: defaultGeminiModel,
		Language:    defaultLang,
		MaxPRs:      defaultMaxPRs,
		MaxCommits:  defaultMaxCommits,
		PathFile:    path,
	}
}

func createDefaultConfig(path string) (*Config, error) {
	config := defaultConfig(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("error al crear el directorio de configuración: %w", err)
	}

	if err := write(config); err != nil {
		return nil, fmt.Errorf("error al guardar la configuración por defecto: %w", err)
	}

	return config, nil
}

func applyEnv(config *Config) {
	if v := os.Getenv(EnvGitHubToken); v != "" {
		config.GitHubToken = v
	}
	if v := os.Getenv(EnvGeminiKey); v != "" {
		config.GeminiAPIKey = v
	}
	if v := os.Getenv(EnvLanguage); v != "" {
		config.Language = strings.ToLower(v)
	}
}

func SaveConfig(config *Config) error {
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("la configuración a guardar no es válida: %w", err)
	}

	if config.PathFile == "" {
		return errors.New("la ruta del archivo de configuración no está definida")
	}

	if err := write(config); err != nil {
		return fmt.Errorf("error al guardar la configuración: %w", err)
	}
	return nil
}

func write(config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(config.PathFile, data, 0o600)
}

// Set assigns value to the configuration key and validates the result.
// gemini_token is accepted as an alias of gemini_api_key.
func (c *Config) Set(key, value string) error {
	next := *c
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "github_token":
		next.GitHubToken = value
	case "github_user":
		next.GitHubUser = value
	case "gemini_api_key", "gemini_token":
		next.GeminiAPIKey = value
	case "gemini_model":
		next.GeminiModel = value
	case "summary_language", "language":
		next.Language = strings.ToLower(value)
	case "max_prs_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return domainErrors.ErrInvalidConfig.WithContext("field", "max_prs_limit").WithError(err)
		}
		next.MaxPRs = n
	case "max_commits_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return domainErrors.ErrInvalidConfig.WithContext("field", "max_commits_limit").WithError(err)
		}
		next.MaxCommits = n
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return domainErrors.ErrInvalidConfig.WithContext("field", "debug").WithError(err)
		}
		next.Debug = b
	default:
		return domainErrors.ErrUnknownConfigKey.WithContext("key", key)
	}

	if err := validateConfig(&next); err != nil {
		return err
	}
	*c = next
	return nil
}

// Get returns the textual value of key.
func (c *Config) Get(key string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "github_token":
		return c.GitHubToken, nil
	case "github_user":
		return c.GitHubUser, nil
	case "gemini_api_key", "gemini_token":
		return c.GeminiAPIKey, nil
	case "gemini_model":
		return c.GeminiModel, nil
	case "summary_language", "language":
		return c.Language, nil
	case "max_prs_limit":
		return strconv.Itoa(c.MaxPRs), nil
	case "max_commits_limit":
		return strconv.Itoa(c.MaxCommits), nil
	case "debug":
		return strconv.FormatBool(c.Debug), nil
	}
	return "", domainErrors.ErrUnknownConfigKey.WithContext("key", key)
}

// IsSecret reports whether key holds a credential.
func IsSecret(key string) bool {
	switch key {
	case "github_token", "gemini_api_key", "gemini_token":
		return true
	}
	return false
}

// Mask hides all but the last four characters of a credential.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + s[len(s)-4:]
}

func validateConfig(config *Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domainErrors.ErrInvalidConfig.
			WithContext("field", fe.Field()).
			WithContext("rule", fe.Tag()).
			WithError(err)
	}
	return domainErrors.ErrInvalidConfig.WithError(err)
}
