package mailSender

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"

	"session_auth/internal/config"
	"session_auth/internal/models"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var ErrUnknownTemplate = errors.New("unknown mail template")

type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	dialer    Dialer
	from      string
	templates *template.Template
}

func New(cfg config.SMTP) (*Mailer, error) {
	return NewWithDialer(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

func NewWithDialer(dialer Dialer, from string) (*Mailer, error) {
	const op = "mailSender.New"

	tmpl, err := template.New("mail").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Mailer{
		dialer:    dialer,
		from:      from,
		templates: tmpl,
	}, nil
}

// * Handle декодирует сообщение из очереди и отправляет письмо
func (m *Mailer) Handle(body []byte) error {
	const op = "mailSender.Handle"

	var msg models.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.Send(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (m *Mailer) Send(msg models.Message) error {
	const op = "mailSender.Send"

	text, err := m.Render(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.Email)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", text)

	if err := m.dialer.DialAndSend(mail); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Render executes the template named by msg.Template with msg.Data.
func (m *Mailer) Render(msg models.Message) (string, error) {
	tmpl := m.templates.Lookup(msg.Template + ".tmpl")
	if tmpl == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, msg.Template)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, msg.Data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
