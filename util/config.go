package util

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const Name = "niti"
const ConfigFileName = "config.yaml"

//go:embed config_default.yaml
var embeddedConfig []byte

type AppConfig struct {
	Conf struct {
		BaseURL               string `yaml:"baseUrl"`
		MaxChars              int    `yaml:"maxChars"`
		RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
		RequestsPerSecond     int    `yaml:"requestsPerSecond"`
		PageSize              int    `yaml:"pageSize"`
	}
}

func ReadConf() (*AppConfig, error) {

	c := &AppConfig{}

	// A .env next to the binary can carry the NITI_* overrides below
	_ = godotenv.Load()

	// Try to resolve config file path (local first, then user dir)
	configPath := ResolveFilePath(ConfigFileName)

	buf, err := os.ReadFile(configPath)
	if err != nil {
		// If file doesn't exist, use embedded config and create user config file
		log.Printf("Config file not found at %s, using embedded defaults", configPath)
		buf = embeddedConfig

		configDir, dirErr := GetConfigDir()
		if dirErr == nil {
			userConfigPath := configDir + "/" + ConfigFileName
			writeErr := os.WriteFile(userConfigPath, embeddedConfig, 0644)
			if writeErr != nil {
				log.Printf("Warning: could not write default config to %s: %v", userConfigPath, writeErr)
			} else {
				log.Printf("Created default config file at %s", userConfigPath)
			}
		}
	}

	err = yaml.Unmarshal(buf, c)
	if err != nil {
		return nil, fmt.Errorf("in config file: %w", err)
	}

	applyEnvOverrides(c)
	applyDefaults(c)

	return c, nil
}

func applyEnvOverrides(c *AppConfig) {
	if v := os.Getenv("NITI_BASE_URL"); v != "" {
		c.Conf.BaseURL = v
	}

	if v := os.Getenv("NITI_MAX_CHARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Error parsing NITI_MAX_CHARS: %v", err)
		} else {
			c.Conf.MaxChars = n
		}
	}

	if v := os.Getenv("NITI_REQUEST_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Error parsing NITI_REQUEST_TIMEOUT_SECONDS: %v", err)
		} else {
			c.Conf.RequestTimeoutSeconds = n
		}
	}

	if v := os.Getenv("NITI_REQUESTS_PER_SECOND"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Error parsing NITI_REQUESTS_PER_SECOND: %v", err)
		} else {
			c.Conf.RequestsPerSecond = n
		}
	}

	if v := os.Getenv("NITI_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("Error parsing NITI_PAGE_SIZE: %v", err)
		} else {
			c.Conf.PageSize = n
		}
	}
}

func applyDefaults(c *AppConfig) {
	if c.Conf.BaseURL == "" {
		c.Conf.BaseURL = "http://localhost:5000"
	}

	if c.Conf.MaxChars <= 0 {
		c.Conf.MaxChars = 5000
	} else if c.Conf.MaxChars > 5000 {
		// The server rejects longer posts anyway, cap the advisory limit
		log.Printf("maxChars value %d exceeds server maximum of 5000, capping", c.Conf.MaxChars)
		c.Conf.MaxChars = 5000
	}

	if c.Conf.RequestsPerSecond <= 0 {
		c.Conf.RequestsPerSecond = 5
	}

	if c.Conf.RequestTimeoutSeconds < 0 {
		c.Conf.RequestTimeoutSeconds = 0
	}

	if c.Conf.PageSize <= 0 {
		c.Conf.PageSize = 10
	}
}
