package mailer

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned by Send when SMTP credentials are missing.
var ErrNotConfigured = errors.New("mailer is not configured")

// Sender sends a single email.
type Sender interface {
	Send(email Email) error
}

// Mailer represents an email sender.
type Mailer struct {
	config    Config
	dialer    *gomail.Dialer
	configErr error
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// NewMailer creates a new Mailer instance with the given configuration.
// An incomplete configuration is logged, and every later Send fails with
// ErrNotConfigured.
func NewMailer(logger *zerolog.Logger, cfg Config) *Mailer {
	m := &Mailer{config: cfg}

	if err := cfg.validate(); err != nil {
		logger.Warn().Err(err).Msg("mailer configuration is incomplete, emails will not be sent")
		m.configErr = fmt.Errorf("%w: %w", ErrNotConfigured, err)
		return m
	}

	m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	return m
}

// Send sends a single email.
func (m *Mailer) Send(email Email) error {
	if m.configErr != nil {
		return m.configErr
	}

	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	return m.dialer.DialAndSend(m.newMessage(email))
}

func (m *Mailer) newMessage(email Email) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	msg.SetBody("text/plain", email.Body)
	if email.HTMLBody != "" {
		msg.AddAlternative("text/html", email.HTMLBody)
	}

	return msg
}

// Config holds SMTP configuration for sending emails.
type Config struct {
	Host     string `env:"SMTP_HOST"     envDefault:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT"     envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// NewConfig creates a Config instance from environment variables.
// SMTP_FROM falls back to SMTP_USERNAME.
func NewConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	if cfg.From == "" {
		cfg.From = cfg.Username
	}

	return cfg, nil
}

// validate checks if the Mailer configuration is valid.
func (c Config) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.Username == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.Password == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}
