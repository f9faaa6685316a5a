// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Template names
const (
	TemplateEventAnnouncement = "event_announcement"
	TemplateEventReminder     = "event_reminder"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
}

// Sender delivers a single rendered template to its recipients.
type Sender interface {
	SendWithTemplate(to []string, subject, templateName string, data interface{}) error
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
	log       *zerolog.Logger
}

// NewService creates a new email service
func NewService(config *Config, log *zerolog.Logger) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
		log:       log,
	}
	s.loadTemplates()
	return s
}

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// EventEmailData holds data for event announcement and reminder emails
type EventEmailData struct {
	EventName   string
	Description string
	Location    string
	Date        string
	Time        string
	Hours       string
	HoursType   string
	EventURL    string
}

const layout = `
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #8c1d40; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .card { background: white; border-radius: 8px; padding: 16px; margin: 16px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .btn { display: inline-block; background: #8c1d40; color: white; padding: 12px 20px; text-decoration: none; border-radius: 6px; margin-top: 16px; }
        .footer { margin-top: 24px; font-size: 12px; color: #6b7280; text-align: center; }
    </style>
</head>
<body>
<div class="container">
    <div class="header"><h2>{{template "title" .}}</h2></div>
    <div class="content">
        {{template "body" .}}
        <div class="card">
            <p><strong>{{.EventName}}</strong></p>
            <p><strong>When:</strong> {{.Date}}{{if .Time}} at {{.Time}}{{end}}</p>
            {{if .Location}}<p><strong>Where:</strong> {{.Location}}</p>{{end}}
            {{if .Hours}}<p><strong>Hours:</strong> {{.Hours}} {{.HoursType}}</p>{{end}}
        </div>
        <a href="{{.EventURL}}" class="btn">View Event</a>
    </div>
    <div class="footer">You are receiving this because you are a member of the organization.</div>
</div>
</body>
</html>
`

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {
	base := template.Must(template.New("layout").Parse(layout))

	s.templates[TemplateEventAnnouncement] = template.Must(template.Must(base.Clone()).Parse(`
{{define "title"}}New Event: {{.EventName}}{{end}}
{{define "body"}}<p>A new event has been posted.</p>{{if .Description}}<p>{{.Description}}</p>{{end}}
<p>RSVP in the portal and check in on site to earn hours.</p>{{end}}
`))

	s.templates[TemplateEventReminder] = template.Must(template.Must(base.Clone()).Parse(`
{{define "title"}}Reminder: {{.EventName}} is tomorrow{{end}}
{{define "body"}}<p>You RSVP'd for this event. Remember to check in when you arrive.</p>{{end}}
`))
}

// Render executes a template without sending it.
func (s *Service) Render(templateName string, data interface{}) (string, error) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

// Send sends an email
func (s *Service) Send(email *Email) error {
	if s.config.Host == "" {
		s.log.Debug().Msg("[Email] Not configured, skipping send")
		return nil
	}

	var msg bytes.Buffer

	// Headers
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
	}

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if !s.config.UseTLS {
		return smtp.SendMail(addr, auth, s.config.From, email.To, msg.Bytes())
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("TLS dial error: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("SMTP client error: %w", err)
	}
	defer client.Close()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("auth error: %w", err)
	}
	if err = client.Mail(s.config.From); err != nil {
		return fmt.Errorf("mail error: %w", err)
	}
	for _, rcpt := range email.To {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt error: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data error: %w", err)
	}
	if _, err = w.Write(msg.Bytes()); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("close error: %w", err)
	}

	return client.Quit()
}

// SendWithTemplate sends an email using a template
func (s *Service) SendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	body, err := s.Render(templateName, data)
	if err != nil {
		return err
	}
	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: body,
	})
}
