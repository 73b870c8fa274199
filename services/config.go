package services

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is read once at process start
type Config struct {
	Port        string
	StoreURI    string
	StoreDB     string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string
	// APIURL is where the command line client finds the server
	APIURL string
}

// LoadEnv loads environment variables from a .env file. A missing file is not an error.
func LoadEnv(filename string) error {
	err := godotenv.Load(filename)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func newViper(configPaths []string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("couplecal")
	v.SetConfigType("yaml")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	v.SetDefault("port", "3001")
	v.SetDefault("store_db", "couple_calendar")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("api_url", "http://localhost:3001")

	// MONGODB_* names are still accepted for older deployments
	_ = v.BindEnv("store_uri", "STORE_URI", "MONGODB_URI")
	_ = v.BindEnv("store_db", "STORE_DB", "MONGODB_DB")
	v.AutomaticEnv()
	return v
}

func readConfig(configPaths []string) (*viper.Viper, error) {
	v := newViper(configPaths)
	if len(configPaths) == 0 {
		return v, nil
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading couplecal.yaml: %w", err)
		}
	}
	return v, nil
}

// LoadConfig builds the server configuration from the environment and an
// optional couplecal.yaml in configPaths. A missing store connection string is
// an error.
func LoadConfig(configPaths ...string) (Config, error) {
	v, err := readConfig(configPaths)
	if err != nil {
		return Config{}, err
	}

	cfg := fromViper(v)
	if cfg.StoreURI == "" {
		return Config{}, errors.New("STORE_URI (or MONGODB_URI) must be set")
	}
	return cfg, nil
}

// LoadClientConfig is LoadConfig without the store requirement, for commands
// that only talk to a running server.
func LoadClientConfig(configPaths ...string) (Config, error) {
	v, err := readConfig(configPaths)
	if err != nil {
		return Config{}, err
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port:        v.GetString("port"),
		StoreURI:    strings.TrimSpace(v.GetString("store_uri")),
		StoreDB:     v.GetString("store_db"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		CORSOrigins: splitList(v.GetString("cors_origins")),
		APIURL:      strings.TrimRight(v.GetString("api_url"), "/"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
