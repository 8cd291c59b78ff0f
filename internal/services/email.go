package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/rezoapp/rezo-backend/internal/config"
)

// EmailSender delivers the two transactional mails the auth flow needs.
// The concrete provider is chosen once at startup from configuration.
type EmailSender interface {
	SendMagicLink(email, magicLink string) error
	SendWelcome(email, pseudo string) error
}

// NewEmailSender picks the provider configured in EMAIL_PROVIDER.
func NewEmailSender(cfg *config.Config) EmailSender {
	switch cfg.EmailProvider {
	case "resend":
		return &resendSender{
			apiKey:  cfg.ResendAPIKey,
			from:    cfg.EmailFrom,
			baseURL: "https://api.resend.com",
			client:  &http.Client{Timeout: 10 * time.Second},
		}
	case "log":
		return &logSender{}
	default:
		return &smtpSender{
			host: cfg.EmailHost,
			port: cfg.EmailPort,
			user: cfg.EmailUser,
			pass: cfg.EmailPass,
			from: cfg.EmailFrom,
		}
	}
}

const magicLinkSubject = "Votre lien magique Rezo ✨"
const welcomeSubject = "Bienvenue sur Rezo 🎶"

var magicLinkTemplate = template.Must(template.New("magiclink").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Connexion à Rezo</title></head>
<body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;color:#333;max-width:600px;margin:0 auto;padding:20px;">
  <div style="background:white;border-radius:16px;padding:40px;box-shadow:0 4px 6px rgba(0,0,0,0.1);">
    <h1 style="text-align:center;">🎵 Rezo</h1>
    <p>Clique sur le bouton ci-dessous pour te connecter à Rezo. Ce lien est valable 10 minutes et ne peut être utilisé qu'une seule fois.</p>
    <p style="text-align:center;margin:30px 0;">
      <a href="{{.MagicLink}}" style="display:inline-block;background:linear-gradient(135deg,#667eea 0%,#764ba2 100%);color:white;padding:14px 28px;border-radius:8px;text-decoration:none;font-weight:bold;">Se connecter</a>
    </p>
    <p style="font-size:13px;color:#666;">Si le bouton ne fonctionne pas, copie ce lien dans ton navigateur&nbsp;:<br>{{.MagicLink}}</p>
    <p style="font-size:13px;color:#666;">Si tu n'es pas à l'origine de cette demande, ignore simplement cet email.</p>
  </div>
</body>
</html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Bienvenue sur Rezo</title></head>
<body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;color:#333;max-width:600px;margin:0 auto;padding:20px;">
  <div style="background:white;border-radius:16px;padding:40px;box-shadow:0 4px 6px rgba(0,0,0,0.1);">
    <h1 style="text-align:center;">🎵 Rezo</h1>
    <p>Bienvenue {{.Pseudo}} !</p>
    <p>Ton compte est prêt. Dis-nous comment tu te sens et Rezo trouve la musique qui va avec ton humeur.</p>
  </div>
</body>
</html>`))

func renderMagicLink(magicLink string) (string, error) {
	var buf bytes.Buffer
	if err := magicLinkTemplate.Execute(&buf, map[string]string{"MagicLink": magicLink}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderWelcome(pseudo string) (string, error) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, map[string]string{"Pseudo": pseudo}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// smtpSender delivers through a plain SMTP relay.
type smtpSender struct {
	host string
	port string
	user string
	pass string
	from string
}

func (s *smtpSender) send(to, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-version: 1.0;",
		`Content-Type: text/html; charset="UTF-8";`,
		"",
		htmlBody,
	}, "\r\n")

	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}

func (s *smtpSender) SendMagicLink(email, magicLink string) error {
	body, err := renderMagicLink(magicLink)
	if err != nil {
		return err
	}
	return s.send(email, magicLinkSubject, body)
}

func (s *smtpSender) SendWelcome(email, pseudo string) error {
	body, err := renderWelcome(pseudo)
	if err != nil {
		return err
	}
	return s.send(email, welcomeSubject, body)
}

// resendSender delivers through the Resend HTTP API.
type resendSender struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

func (s *resendSender) send(to, subject, htmlBody string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"from":    s.from,
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resend: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (s *resendSender) SendMagicLink(email, magicLink string) error {
	body, err := renderMagicLink(magicLink)
	if err != nil {
		return err
	}
	return s.send(email, magicLinkSubject, body)
}

func (s *resendSender) SendWelcome(email, pseudo string) error {
	body, err := renderWelcome(pseudo)
	if err != nil {
		return err
	}
	return s.send(email, welcomeSubject, body)
}

// logSender is the development fallback: links are logged, not sent.
type logSender struct{}

func (s *logSender) SendMagicLink(email, magicLink string) error {
	log.Printf("🔗 Magic link for %s: %s", email, magicLink)
	return nil
}

func (s *logSender) SendWelcome(email, pseudo string) error {
	log.Printf("👋 Welcome email for %s (%s)", email, pseudo)
	return nil
}
