package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `yaml:"port"`
	Environment  string `yaml:"env"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`

	// FloorplanURL is where the gateway finds the floor-plan service.
	FloorplanURL string `yaml:"floorplan_url"`

	Floorplan FloorplanConfig `yaml:"floorplan"`
}

type FloorplanConfig struct {
	Port        string       `yaml:"port"`
	BodyLimitMB int          `yaml:"body_limit_mb"`
	DBPath      string       `yaml:"db_path"`
	StorageDir  string       `yaml:"storage_dir"`
	Units       string       `yaml:"units"`
	Raster      RasterConfig `yaml:"raster"`
}

// RasterConfig controls plan images.
type RasterConfig struct {
	Margin     float64 `yaml:"margin"`
	Background string  `yaml:"background"`
	Accent     string  `yaml:"accent"`
}

const defaultConfigFile = "floorplan.yaml"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:         "3000",
		Environment:  "development",
		ReadTimeout:  10,
		WriteTimeout: 10,
		FloorplanURL: "http://localhost:3001",
		Floorplan: FloorplanConfig{
			Port:        "3001",
			BodyLimitMB: 64,
			DBPath:      "data/db/floorplan.db",
			StorageDir:  "data/exports",
			Units:       "metric",
			Raster: RasterConfig{
				Margin:     40,
				Background: "#ffffff",
				Accent:     "#2f4f8f",
			},
		},
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML-файл
// ($FLOORPLAN_CONFIG или ./floorplan.yaml), затем переменные окружения.
func Load() (*Config, error) {
	path := getEnv("FLOORPLAN_CONFIG", "")
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg = Default()
		} else {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFromPath reads a YAML file over the defaults. Environment variables are
// not applied.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("ENV", c.Environment)
	c.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.WriteTimeout)
	c.FloorplanURL = getEnv("FLOORPLAN_URL", c.FloorplanURL)
	c.Floorplan.Port = getEnv("FLOORPLAN_PORT", c.Floorplan.Port)
	c.Floorplan.BodyLimitMB = getEnvAsInt("FLOORPLAN_BODY_LIMIT_MB", c.Floorplan.BodyLimitMB)
	c.Floorplan.DBPath = getEnv("FLOORPLAN_DB_PATH", c.Floorplan.DBPath)
	c.Floorplan.StorageDir = getEnv("FLOORPLAN_STORAGE_DIR", c.Floorplan.StorageDir)
	c.Floorplan.Units = getEnv("FLOORPLAN_UNITS", c.Floorplan.Units)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
