package email

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyContactMessage_Disabled(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{}, zerolog.Nop())
	n.send = func(ctx context.Context, to, message string) error {
		t.Fatal("send must not be called without configuration")
		return nil
	}

	assert.False(t, n.Enabled())
	assert.NoError(t, n.NotifyContactMessage(context.Background(), "A", "a@b.com", "Hi", "Hello"))
}

func TestNotifyContactMessage_BuildsEscapedMessage(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{
		Host:          "smtp.club.test",
		Port:          587,
		FromName:      "Club Website",
		FromEmail:     "noreply@club.test",
		NotifyAddress: "board@club.test",
	}, zerolog.Nop())

	var gotTo, gotMessage string
	n.send = func(ctx context.Context, to, message string) error {
		gotTo, gotMessage = to, message
		return nil
	}

	err := n.NotifyContactMessage(context.Background(), "Eve", "eve@x.test", "Hi\r\nBcc: victim@x.test", "<script>alert(1)</script>")
	require.NoError(t, err)

	assert.Equal(t, "board@club.test", gotTo)
	assert.Contains(t, gotMessage, "Subject: Contact form: Hi  Bcc: victim@x.test\r\n")
	headerBlock := strings.SplitN(gotMessage, "\r\n\r\n", 2)[0]
	assert.NotContains(t, headerBlock, "\nBcc:")
	assert.Contains(t, gotMessage, "&lt;script&gt;")
	assert.Contains(t, gotMessage, "Reply-To: eve@x.test\r\n")
}

// listen starts a local TCP server handing every connection to serve
func listen(t *testing.T, serve func(conn net.Conn)) (string, int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				serve(conn)
			}()
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return host, p
}

func TestDeliver_SilentServerTimesOut(t *testing.T) {
	host, port := listen(t, func(conn net.Conn) {
		time.Sleep(5 * time.Second)
	})

	n := NewSMTPNotifier(SMTPConfig{
		Host:          host,
		Port:          port,
		FromEmail:     "noreply@club.test",
		NotifyAddress: "board@club.test",
		Timeout:       200 * time.Millisecond,
	}, zerolog.Nop())

	start := time.Now()
	err := n.NotifyContactMessage(context.Background(), "A", "a@b.com", "Hi", "Hello")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestDeliver_PlainConversation(t *testing.T) {
	received := make(chan string, 1)
	host, port := listen(t, func(conn net.Conn) {
		r := bufio.NewReader(conn)
		reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

		reply("220 club.test ESMTP")
		var data strings.Builder
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				reply("250 club.test")
			case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
				reply("250 OK")
			case cmd == "DATA":
				reply("354 go ahead")
				for {
					body, err := r.ReadString('\n')
					if err != nil {
						return
					}
					if body == ".\r\n" {
						break
					}
					data.WriteString(body)
				}
				received <- data.String()
				reply("250 queued")
			case cmd == "QUIT":
				reply("221 bye")
				return
			default:
				reply("502 unsupported")
			}
		}
	})

	n := NewSMTPNotifier(SMTPConfig{
		Host:          host,
		Port:          port,
		FromName:      "Club Website",
		FromEmail:     "noreply@club.test",
		NotifyAddress: "board@club.test",
		Timeout:       2 * time.Second,
	}, zerolog.Nop())

	require.NoError(t, n.NotifyContactMessage(context.Background(), "Ada", "ada@x.test", "Hi", "Hello"))

	select {
	case msg := <-received:
		assert.Contains(t, msg, "Subject: Contact form: Hi\r\n")
	case <-time.After(2 * time.Second):
		t.Fatal("message never reached the server")
	}
}
