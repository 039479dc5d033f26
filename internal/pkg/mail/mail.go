package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/smtp"
	"strings"
	"time"
)

// Config holds mail provider settings.
type Config struct {
	Enable    bool
	Host      string
	Port      int
	User      string
	Pass      string
	From      string
	ReplyTo   string
	UseResend bool
	ResendKey string
}

// Message is a single outbound email. Bcc recipients receive the message
// without seeing each other; the visible To line is typically the sending
// identity itself when Bcc carries the real audience.
type Message struct {
	From    string
	To      []string
	Bcc     []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Transport delivers a fully formed message. Implemented by Sender; tests
// substitute mocks.
type Transport interface {
	Send(msg Message) error
}

// Sender sends emails via SMTP or Resend.
type Sender struct {
	cfg Config
}

func New(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send dispatches an email. Uses Resend if configured, otherwise SMTP.
// At most one delivery attempt is made; failures are returned, not retried.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.Enable {
		return nil
	}
	if msg.From == "" {
		msg.From = s.cfg.From
	}
	if msg.From == "" {
		msg.From = s.cfg.User
	}
	if msg.ReplyTo == "" {
		msg.ReplyTo = s.cfg.ReplyTo
	}
	if len(msg.To) == 0 && len(msg.Bcc) == 0 {
		return fmt.Errorf("mail: message has no recipients")
	}
	if s.cfg.UseResend && s.cfg.ResendKey != "" {
		return s.sendResend(msg)
	}
	return s.sendSMTP(msg)
}

// sendSMTP sends via net/smtp. Bcc recipients go on the envelope only and
// never appear in the headers.
func (s *Sender) sendSMTP(msg Message) error {
	host := s.cfg.Host
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	if len(msg.To) > 0 {
		body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	}
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if msg.ReplyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", msg.ReplyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	recipients := make([]string, 0, len(msg.To)+len(msg.Bcc))
	recipients = append(recipients, msg.To...)
	recipients = append(recipients, msg.Bcc...)

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, host)
	return smtp.SendMail(addr, auth, msg.From, recipients, body.Bytes())
}

// sendResend sends via the Resend HTTP API.
func (s *Sender) sendResend(msg Message) error {
	payload := map[string]interface{}{
		"from":    msg.From,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if len(msg.Bcc) > 0 {
		payload["bcc"] = msg.Bcc
	}
	if msg.Text != "" {
		payload["text"] = msg.Text
	}
	if msg.ReplyTo != "" {
		payload["reply_to"] = msg.ReplyTo
	}
	data, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}

const newsletterTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,Noto Sans,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border-radius:.375rem;box-shadow:0 4px 6px -1px rgb(0 0 0 / .1),0 2px 4px -2px rgb(0 0 0 / .1);margin:40px auto;padding:20px;width:550px;position:relative;overflow:hidden;border:1px solid rgb(226,232,240)">
    <tbody>
      <tr><td>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:rgb(100,116,139)">{{.SiteName}} just published:</p>
        <h1 style="font-size:20px;text-align:center">{{.Title}}</h1>
        {{if .ImageURL}}
        <img src="{{.ImageURL}}" style="display:block;outline:none;border:none;text-decoration:none;margin:16px auto;max-width:100%;border-radius:.5rem" />
        {{end}}
        {{if .ExcerptHTML}}
        <div style="font-size:14px;line-height:24px;margin:16px 0;color:rgb(51,65,85)">{{.ExcerptHTML}}</div>
        {{end}}
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="text-align:center;margin-top:32px;margin-bottom:32px;position:relative">
          <tbody><tr><td>
            <a href="{{.DetailURL}}" target="_blank" style="line-height:100%;text-decoration:none;display:inline-block;max-width:100%;padding:12px 20px;background-color:rgb(15,23,42);border-radius:.25rem;color:#fff;font-size:12px;font-weight:600;text-align:center">Read the full story</a>
          </td></tr></tbody>
        </table>
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">You receive this email because you subscribed to the {{.SiteName}} newsletter.<br />©{{year}} {{.SiteName}}</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

const inquiryNotifyTpl = `<!DOCTYPE html>
<html lang="en">
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">New {{.Kind}} inquiry</h2>
  <p style="font-size:14px;color:#333"><strong>{{.Name}}</strong> &lt;{{.Email}}&gt;</p>
  {{if .Subject}}<p style="font-size:14px;color:#333">{{.Subject}}</p>{{end}}
  <div style="background:#f3f4f6;border-radius:8px;padding:12px;font-size:13px;color:#333;white-space:pre-wrap">{{.Message}}</div>
  {{if .Link}}<p style="font-size:12px;color:#666">Link: <a href="{{.Link}}">{{.Link}}</a></p>{{end}}
  <p style="color:#999;font-size:12px;margin-top:24px">Sent automatically by the {{.SiteName}} site backend.</p>
</div>
</body>
</html>`

// NewsletterData is the data for new-content newsletter emails.
type NewsletterData struct {
	SiteName    string
	Title       string
	ExcerptHTML template.HTML
	ImageURL    string
	DetailURL   string
}

// InquiryNotifyData is the data for owner notifications about intake submissions.
type InquiryNotifyData struct {
	SiteName string
	Kind     string
	Name     string
	Email    string
	Subject  string
	Message  string
	Link     string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNewsletter renders the newsletter HTML body for published content.
func RenderNewsletter(data NewsletterData) (string, error) {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "Solstice"
	}
	return renderTemplate(newsletterTpl, data)
}

// SendInquiryNotify sends an intake-submission notification to the site owner.
func (s *Sender) SendInquiryNotify(to string, data InquiryNotifyData) error {
	if strings.TrimSpace(data.SiteName) == "" {
		data.SiteName = "Solstice"
	}
	html, err := renderTemplate(inquiryNotifyTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[%s] New %s inquiry from %s", data.SiteName, data.Kind, data.Name),
		HTML:    html,
	})
}
