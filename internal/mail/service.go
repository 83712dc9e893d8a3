package mail

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	"time"

	"github.com/RoveStack/travel_service/config"
	"github.com/RoveStack/travel_service/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	dialTimeout = 8 * time.Second
	// covers the whole SMTP conversation, not just the dial
	sendTimeout = 15 * time.Second
)

// MailService renders the HTML templates and delivers them over SMTP with
// STARTTLS. Every send is bounded by a connection deadline so a stuck
// server cannot wedge the worker.
type MailService struct {
	cfg       config.Mail
	host      string
	templates *template.Template
	log       *logger.Logger
}

func NewMailService(cfg config.Mail, log *logger.Logger) (*MailService, error) {
	host, _, err := net.SplitHostPort(cfg.SMTPAddr)
	if err != nil {
		return nil, fmt.Errorf("invalid smtp address %q: %w", cfg.SMTPAddr, err)
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	return &MailService{
		cfg:       cfg,
		host:      host,
		templates: templates,
		log:       log,
	}, nil
}

// SendVerifyEmail mails the account-activation link. The token rides on the
// configured verify URL as a query parameter.
func (s *MailService) SendVerifyEmail(to, firstName, token string) error {
	link := fmt.Sprintf("%s?token=%s", s.cfg.VerifyBaseURL, url.QueryEscape(token))

	body, err := s.render("verify-email.html", firstName, link)
	if err != nil {
		return err
	}
	return s.send(to, "Verify your email address", body)
}

// SendResetEmail mails the password-reset link. The link arrives fully built
// because the API service owns the reset URL layout.
func (s *MailService) SendResetEmail(to, firstName, link string) error {
	body, err := s.render("reset-password.html", firstName, link)
	if err != nil {
		return err
	}
	return s.send(to, "Reset your password", body)
}

func (s *MailService) render(name, firstName, link string) (string, error) {
	if firstName == "" {
		firstName = "there"
	}

	var buf bytes.Buffer
	err := s.templates.ExecuteTemplate(&buf, name, map[string]string{
		"FirstName": firstName,
		"Link":      link,
	})
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *MailService) send(to, subject, htmlBody string) error {
	fromHeader := fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	s.log.Info().Str("to", to).Str("smtp", s.cfg.SMTPAddr).Msg("sending mail")
	if err := s.sendSMTP(to, []byte(msg)); err != nil {
		return err
	}
	s.log.Info().Str("to", to).Msg("mail sent")
	return nil
}

func (s *MailService) sendSMTP(to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", s.cfg.SMTPAddr, dialTimeout)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(sendTimeout))

	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}

	// dev relays like mailpit run without credentials
	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
