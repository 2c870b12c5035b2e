package mail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mail.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
imap:
  host: imap.example.com
  port: 993
  username: bot@example.com
  password: secret
  tls: true
  mailbox: INBOX
smtp:
  host: smtp.example.com
  port: 587
  username: bot@example.com
  password: secret
  from: bot@example.com
  tls: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "imap.example.com", cfg.IMAP.Host)
	assert.Equal(t, 993, cfg.IMAP.Port)
	assert.Equal(t, "INBOX", cfg.IMAP.Mailbox)
	assert.Equal(t, "bot@example.com", cfg.SMTP.From)
	assert.True(t, cfg.SMTP.TLS)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "imap: [not: a: mapping")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadConfig_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing password",
			content: `
imap:
  host: imap.example.com
  port: 993
  username: bot@example.com
smtp:
  host: smtp.example.com
  port: 587
  username: bot@example.com
  password: secret
  from: bot@example.com
`,
		},
		{
			name: "port out of range",
			content: `
imap:
  host: imap.example.com
  port: 70000
  username: bot@example.com
  password: secret
smtp:
  host: smtp.example.com
  port: 587
  username: bot@example.com
  password: secret
  from: bot@example.com
`,
		},
		{
			name: "bad from address",
			content: `
imap:
  host: imap.example.com
  port: 993
  username: bot@example.com
  password: secret
smtp:
  host: smtp.example.com
  port: 587
  username: bot@example.com
  password: secret
  from: not-an-email
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}
