package mailer

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "portal@example.com",
		Password: "app-password",
		From:     "portal@example.com",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Host = "" }, want: "SMTP_HOST"},
		{name: "missing port", mutate: func(c *Config) { c.Port = 0 }, want: "SMTP_PORT"},
		{name: "missing username", mutate: func(c *Config) { c.Username = "" }, want: "SMTP_USERNAME"},
		{name: "missing password", mutate: func(c *Config) { c.Password = "" }, want: "SMTP_PASSWORD"},
		{name: "missing from", mutate: func(c *Config) { c.From = "" }, want: "SMTP_FROM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewConfigFallsBackToUsernameForFrom(t *testing.T) {
	t.Setenv("SMTP_USERNAME", "events@example.com")
	t.Setenv("SMTP_FROM", "")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "events@example.com", cfg.From)
	assert.Equal(t, "smtp.gmail.com", cfg.Host)
	assert.Equal(t, 587, cfg.Port)
}

func TestSendFailsWhenNotConfigured(t *testing.T) {
	logger := zerolog.Nop()
	m := NewMailer(&logger, Config{})

	err := m.Send(Email{To: []string{"student@x.com"}, Subject: "s", Body: "b"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendRequiresRecipients(t *testing.T) {
	logger := zerolog.Nop()
	m := NewMailer(&logger, validConfig())

	err := m.Send(Email{Subject: "s", Body: "b"})
	assert.Error(t, err)
}

func TestNewMessageCarriesTextAndHTML(t *testing.T) {
	logger := zerolog.Nop()
	m := NewMailer(&logger, validConfig())

	msg := m.newMessage(Email{
		To:       []string{"student@x.com"},
		Subject:  "Your OTP",
		Body:     "Your OTP is 123456.",
		HTMLBody: "<p>123456</p>",
	})

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Your OTP")
	assert.Contains(t, raw, "To: student@x.com")
	assert.Contains(t, raw, "From: portal@example.com")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "Your OTP is 123456.")
}

func TestNewMessageTextOnly(t *testing.T) {
	logger := zerolog.Nop()
	m := NewMailer(&logger, validConfig())

	msg := m.newMessage(Email{
		To:      []string{"student@x.com"},
		Subject: "Your OTP",
		Body:    "Your OTP is 654321.",
	})

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "text/plain")
	assert.NotContains(t, raw, "text/html")
	assert.NotContains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "Your OTP is 654321.")
}
