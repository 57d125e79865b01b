package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds every parameter of the application.
type Config struct {
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	POS      POSConfig
	Auth     AuthConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

// POSConfig describes the register itself: where the menu lives, where
// receipts are written and how order identifiers behave.
type POSConfig struct {
	StoreName     string
	MenuPath      string
	ReceiptsDir   string
	Currency      string
	OrderIDPolicy string // "reject" | "regenerate"
}

type AuthConfig struct {
	Passphrase     string // plain passphrase (dev); ignored when PassphraseHash is set
	PassphraseHash string // bcrypt hash of the shared passphrase
	JWTSecret      string
	TokenTTLMin    int
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldnt open the file for the configuration: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") {
			section = strings.TrimSuffix(line, ":")
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		switch section {
		case "database":
			switch key {
			case "host":
				cfg.Database.Host = value
			case "port":
				cfg.Database.Port, _ = strconv.Atoi(value)
			case "user":
				cfg.Database.User = value
			case "password":
				cfg.Database.Password = value
			case "database":
				cfg.Database.Database = value
			}
		case "rabbitmq":
			switch key {
			case "host":
				cfg.RabbitMQ.Host = value
			case "port":
				cfg.RabbitMQ.Port, _ = strconv.Atoi(value)
			case "user":
				cfg.RabbitMQ.User = value
			case "password":
				cfg.RabbitMQ.Password = value
			case "vhost":
				cfg.RabbitMQ.VHost = value
			}
		case "pos":
			switch key {
			case "store_name":
				cfg.POS.StoreName = value
			case "menu_path":
				cfg.POS.MenuPath = value
			case "receipts_dir":
				cfg.POS.ReceiptsDir = value
			case "currency":
				cfg.POS.Currency = value
			case "order_id_policy":
				cfg.POS.OrderIDPolicy = value
			}
		case "auth":
			switch key {
			case "passphrase":
				cfg.Auth.Passphrase = value
			case "passphrase_hash":
				cfg.Auth.PassphraseHash = value
			case "jwt_secret":
				cfg.Auth.JWTSecret = value
			case "token_ttl_minutes":
				cfg.Auth.TokenTTLMin, _ = strconv.Atoi(value)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	applyEnv(cfg)

	if cfg.POS.OrderIDPolicy != "reject" && cfg.POS.OrderIDPolicy != "regenerate" {
		return nil, fmt.Errorf("invalid pos.order_id_policy %q (want reject or regenerate)", cfg.POS.OrderIDPolicy)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		POS: POSConfig{
			StoreName:     "Smash and Grill",
			MenuPath:      "menu.csv",
			ReceiptsDir:   "receipts",
			Currency:      "PKR",
			OrderIDPolicy: "reject",
		},
		Auth: AuthConfig{TokenTTLMin: 720},
	}
}

// Secrets are never required to live in the config file; the environment
// always wins when set.
func applyEnv(cfg *Config) {
	if v := os.Getenv("POS_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("POS_PASSPHRASE"); v != "" {
		cfg.Auth.Passphrase = v
	}
	if v := os.Getenv("POS_PASSPHRASE_HASH"); v != "" {
		cfg.Auth.PassphraseHash = v
	}
	if v := os.Getenv("POS_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", os.ErrNotExist
}
