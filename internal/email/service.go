package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type Service interface {
	SendFamilyInvite(ctx context.Context, to, patientName, tempPassword string) error
	SendWelcome(ctx context.Context, to, name string) error
}

type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendFamilyInvite(ctx context.Context, to, patientName, tempPassword string) error {
	body := fmt.Sprintf(
		"<p>You have been invited to follow the care record of %s.</p>"+
			"<p>Sign in with this email address and the temporary password <b>%s</b>, "+
			"then change your password.</p>",
		patientName, tempPassword)
	return s.send(ctx, to, "Care record invitation", body)
}

func (s *smtpService) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf("<p>Welcome, %s. Your carer account is ready.</p>", name)
	return s.send(ctx, to, "Welcome", body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
