package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/savaki/buildconsole/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPageSize = 100
	DefaultRetryMax = 3
	DefaultListen   = ":8080"
)

// Config holds all application configuration values
type Config struct {
	BaseURL  string        `yaml:"base_url"`
	Token    string        `yaml:"token"`
	RetryMax int           `yaml:"retry_max"`
	Timeout  time.Duration `yaml:"timeout"`
	PageSize int           `yaml:"page_size"`
	Listen   string        `yaml:"listen"`
}

func (c *Config) setDefaults() {
	if c.RetryMax < 0 {
		c.RetryMax = DefaultRetryMax
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
}

// ParameterStore defines the interface for accessing configuration parameters
type ParameterStore interface {
	// GetParameter retrieves a single parameter by name
	GetParameter(ctx context.Context, name string) (string, error)

	// GetConfig loads all application configuration
	GetConfig(ctx context.Context) (*Config, error)
}

// EnvParameterStore implements ParameterStore using environment variables
type EnvParameterStore struct {
	lookup func(string) (string, bool)
}

// NewEnvParameterStore creates a new environment variable-backed parameter store
func NewEnvParameterStore() *EnvParameterStore {
	return &EnvParameterStore{lookup: os.LookupEnv}
}

// GetParameter retrieves a parameter from environment variables
func (e *EnvParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	value, _ := e.lookup(name)
	return value, nil
}

// GetConfig loads all application configuration from environment variables
func (e *EnvParameterStore) GetConfig(ctx context.Context) (*Config, error) {
	config := &Config{
		RetryMax: -1,
	}
	config.BaseURL, _ = e.lookup("BUILDCONSOLE_BASE_URL")
	config.Token, _ = e.lookup("BUILDCONSOLE_TOKEN")
	config.Listen, _ = e.lookup("BUILDCONSOLE_LISTEN")

	if v, ok := e.lookup("BUILDCONSOLE_RETRY_MAX"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BUILDCONSOLE_RETRY_MAX %q: %w", v, err)
		}
		config.RetryMax = n
	}
	if v, ok := e.lookup("BUILDCONSOLE_PAGE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BUILDCONSOLE_PAGE_SIZE %q: %w", v, err)
		}
		config.PageSize = n
	}
	if v, ok := e.lookup("BUILDCONSOLE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BUILDCONSOLE_TIMEOUT %q: %w", v, err)
		}
		config.Timeout = d
	}

	config.setDefaults()
	return config, nil
}

// fileConfig is the YAML layout: one section per profile
//
//	profiles:
//	  dev:
//	    base_url: http://localhost:8080/conda-store/api/v1
//	    page_size: 50
type fileConfig struct {
	Profiles map[string]Config `yaml:"profiles"`
}

// FileParameterStore implements ParameterStore using a YAML config file
type FileParameterStore struct {
	path    string
	profile string

	mu     sync.Mutex
	loaded *Config
	params map[string]string
}

// NewFileParameterStore creates a store reading the given profile from path
func NewFileParameterStore(path, profile string) *FileParameterStore {
	return &FileParameterStore{
		path:    path,
		profile: profile,
	}
}

// GetParameter retrieves a single parameter by its yaml key, e.g. "base_url"
func (f *FileParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	if _, err := f.GetConfig(ctx); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.params[name]
	if !ok {
		return "", fmt.Errorf("parameter %s not found", name)
	}
	return value, nil
}

// GetConfig loads the profile from the config file; the file is read once
func (f *FileParameterStore) GetConfig(ctx context.Context) (*Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loaded != nil {
		config := *f.loaded
		return &config, nil
	}

	content, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", f.path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", f.path, err)
	}

	config, ok := file.Profiles[f.profile]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrProfileNotFound, f.profile)
	}

	// yaml.v3 leaves absent ints at zero; re-read the section to tell "unset" from 0
	var raw struct {
		Profiles map[string]map[string]any `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", f.path, err)
	}
	section := raw.Profiles[f.profile]
	if _, ok := section["retry_max"]; !ok {
		config.RetryMax = -1
	}

	f.params = make(map[string]string, len(section))
	for k, v := range section {
		f.params[k] = fmt.Sprint(v)
	}

	config.setDefaults()
	f.loaded = &config

	result := config
	return &result, nil
}
