package mail

import (
	"context"
	"encoding/json"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoveStack/travel_service/config"
	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/logger"
)

// smtpSession is what the stub server saw during one delivery.
type smtpSession struct {
	from string
	rcpt string
	data string
}

// startSMTPStub serves a single connection with just enough of the protocol
// for net/smtp. The finished session arrives on the channel once the client
// has quit.
func startSMTPStub(t *testing.T) (string, <-chan smtpSession) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	sessions := make(chan smtpSession, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tc := textproto.NewConn(conn)
		_ = tc.PrintfLine("220 mx.test ready")

		var session smtpSession
		for {
			line, err := tc.ReadLine()
			if err != nil {
				return
			}
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				_ = tc.PrintfLine("250 mx.test")
			case strings.HasPrefix(line, "MAIL FROM:"):
				session.from = line
				_ = tc.PrintfLine("250 ok")
			case strings.HasPrefix(line, "RCPT TO:"):
				session.rcpt = line
				_ = tc.PrintfLine("250 ok")
			case line == "DATA":
				_ = tc.PrintfLine("354 send it")
				var body strings.Builder
				for {
					dataLine, err := tc.ReadLine()
					if err != nil {
						return
					}
					if dataLine == "." {
						break
					}
					body.WriteString(dataLine)
					body.WriteString("\n")
				}
				session.data = body.String()
				_ = tc.PrintfLine("250 queued")
			case line == "QUIT":
				_ = tc.PrintfLine("221 bye")
				sessions <- session
				return
			default:
				_ = tc.PrintfLine("250 ok")
			}
		}
	}()

	return ln.Addr().String(), sessions
}

func testMailConfig(addr string) config.Mail {
	return config.Mail{
		SMTPAddr:      addr,
		From:          "noreply@rovestack.io",
		FromName:      "RoveStack Travel",
		VerifyBaseURL: "http://localhost:3000/api/user/verify-email",
	}
}

func waitForSession(t *testing.T, sessions <-chan smtpSession) smtpSession {
	t.Helper()
	select {
	case session := <-sessions:
		return session
	case <-time.After(2 * time.Second):
		t.Fatal("smtp session never completed")
		return smtpSession{}
	}
}

func TestNewMailService_RejectsAddressWithoutPort(t *testing.T) {
	_, err := NewMailService(testMailConfig("smtp.gmail.com"), logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid smtp address")
}

func TestRender_FallsBackToFriendlyName(t *testing.T) {
	svc, err := NewMailService(testMailConfig("127.0.0.1:2525"), logger.Nop())
	require.NoError(t, err)

	out, err := svc.render("reset-password.html", "", "http://example.com/reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Hi there,")
	assert.Contains(t, out, "http://example.com/reset")

	out, err = svc.render("verify-email.html", "Alice", "http://example.com/verify")
	require.NoError(t, err)
	assert.Contains(t, out, "Hi Alice,")
}

func TestSendVerifyEmail_DeliversOverSMTP(t *testing.T) {
	addr, sessions := startSMTPStub(t)

	svc, err := NewMailService(testMailConfig(addr), logger.Nop())
	require.NoError(t, err)
	require.NoError(t, svc.SendVerifyEmail("alice@example.com", "Alice", "tok/en+value"))

	session := waitForSession(t, sessions)
	assert.Contains(t, session.from, "noreply@rovestack.io")
	assert.Contains(t, session.rcpt, "alice@example.com")
	assert.Contains(t, session.data, "From: RoveStack Travel <noreply@rovestack.io>")
	assert.Contains(t, session.data, "To: alice@example.com")
	assert.Contains(t, session.data, "Subject: Verify your email address")
	assert.Contains(t, session.data, "Hi Alice,")
	// the token must ride the verify URL query-escaped
	assert.Contains(t, session.data, "verify-email?token=tok%2Fen%2Bvalue")
}

func TestEventHandler_DispatchesOnKey(t *testing.T) {
	addr, sessions := startSMTPStub(t)

	svc, err := NewMailService(testMailConfig(addr), logger.Nop())
	require.NoError(t, err)
	handler := NewEventHandler(svc, logger.Nop())

	payload, err := json.Marshal(dto.ResetPasswordEvent{
		Email:     "alice@example.com",
		ResetLink: "http://localhost:3000/api/user/reset-password?token=abc",
	})
	require.NoError(t, err)
	require.NoError(t, handler.HandleMessage(context.Background(), dto.EventResetPassword, payload))

	session := waitForSession(t, sessions)
	assert.Contains(t, session.rcpt, "alice@example.com")
	assert.Contains(t, session.data, "Subject: Reset your password")
	assert.Contains(t, session.data, "Hi there,")
	assert.Contains(t, session.data, "reset-password?token=abc")
}

func TestEventHandler_UnknownKeyAndBadPayload(t *testing.T) {
	// nothing listens here; a wrongly dispatched send would fail loudly
	svc, err := NewMailService(testMailConfig("127.0.0.1:1"), logger.Nop())
	require.NoError(t, err)
	handler := NewEventHandler(svc, logger.Nop())

	assert.NoError(t, handler.HandleMessage(context.Background(), "user.deleted", []byte(`{}`)))
	assert.Error(t, handler.HandleMessage(context.Background(), dto.EventVerifyEmail, []byte(`{not json`)))
}
