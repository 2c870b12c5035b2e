package mail

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// IMAPConfig holds the mailbox connection settings for a Fetcher
// implementation.
type IMAPConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password" validate:"required"`
	TLS      bool   `yaml:"tls"`
	Mailbox  string `yaml:"mailbox"`
}

// SMTPConfig holds the delivery settings for a Sender implementation.
type SMTPConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password" validate:"required"`
	From     string `yaml:"from" validate:"required,email"`
	TLS      bool   `yaml:"tls"`
}

// Config is the email collaborator configuration, loaded from a YAML file.
type Config struct {
	IMAP IMAPConfig `yaml:"imap" validate:"required"`
	SMTP SMTPConfig `yaml:"smtp" validate:"required"`
}

// LoadConfig reads and validates the configuration file. A missing file or
// an invalid document fails loudly; there are no silent defaults for
// connection settings.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mail: read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("mail: parse config %s: %w", path, err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("mail: invalid config %s: %w", path, err)
	}

	return &cfg, nil
}
