package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Notifier tells the club about new public submissions
type Notifier interface {
	NotifyContactMessage(ctx context.Context, name, fromEmail, subject, message string) error
}

// DefaultTimeout bounds a whole SMTP exchange when SMTPConfig.Timeout is unset
const DefaultTimeout = 10 * time.Second

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	FromName      string
	FromEmail     string
	NotifyAddress string
	UseTLS        bool
	// Timeout bounds dialing and the whole conversation with the server
	Timeout time.Duration
}

// SMTPNotifier implements Notifier over SMTP
type SMTPNotifier struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(ctx context.Context, to, message string) error
}

// NewSMTPNotifier creates a new SMTPNotifier
func NewSMTPNotifier(config SMTPConfig, logger zerolog.Logger) *SMTPNotifier {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	n := &SMTPNotifier{
		config: config,
		logger: logger,
	}
	n.send = n.deliver
	return n
}

// Enabled reports whether enough configuration exists to deliver mail
func (n *SMTPNotifier) Enabled() bool {
	return n.config.Host != "" && n.config.NotifyAddress != ""
}

// NotifyContactMessage mails the notify address about a new contact message
func (n *SMTPNotifier) NotifyContactMessage(ctx context.Context, name, fromEmail, subject, message string) error {
	if !n.Enabled() {
		n.logger.Debug().Str("from", fromEmail).Msg("SMTP not configured - contact notification skipped")
		return nil
	}

	if subject == "" {
		subject = "(no subject)"
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">New contact message</h2>
				<p><strong>From:</strong> %s &lt;%s&gt;</p>
				<p><strong>Subject:</strong> %s</p>
				<p style="white-space: pre-wrap;">%s</p>
			</div>
		</body>
		</html>
	`, html.EscapeString(name), html.EscapeString(fromEmail), html.EscapeString(subject), html.EscapeString(message))

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", n.config.FromName, n.config.FromEmail),
		"To":           n.config.NotifyAddress,
		"Reply-To":     sanitizeHeader(fromEmail),
		"Subject":      "Contact form: " + sanitizeHeader(subject),
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	return n.send(ctx, n.config.NotifyAddress, buildMessage(headers, body))
}

// sanitizeHeader keeps submitter text from injecting extra headers
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

func buildMessage(headers map[string]string, body string) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}

// deliver sends message to a single recipient. Dialing and every read or
// write after it share one deadline of config.Timeout.
func (n *SMTPNotifier) deliver(ctx context.Context, to, message string) error {
	serverAddress := net.JoinHostPort(n.config.Host, strconv.Itoa(n.config.Port))

	ctx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	dialer := &net.Dialer{Timeout: n.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", serverAddress)
	if err != nil {
		n.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("failed to set SMTP deadline: %w", err)
		}
	}

	tlsConfig := &tls.Config{ServerName: n.config.Host}
	if n.config.UseTLS {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, n.config.Host)
	if err != nil {
		n.logger.Error().Err(err).Str("server", serverAddress).Msg("SMTP greeting failed")
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if !n.config.UseTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err = client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("failed to start TLS: %w", err)
			}
		}
	}

	if n.config.Username != "" {
		auth := smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
		if err = client.Auth(auth); err != nil {
			n.logger.Error().Err(err).Msg("SMTP authentication failed")
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err = client.Mail(n.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return client.Quit()
}
