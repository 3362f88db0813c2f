package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeAlert(t *testing.T) {
	msg, err := ComposeAlert("alerts@example.com", "  Piso A3 ", []string{"a@x.com", " ", "b@y.com"})
	require.NoError(t, err)

	assert.Equal(t, "alerts@example.com", msg.From)
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, msg.To)
	assert.Equal(t, AlertSubject, msg.Subject)
	assert.Contains(t, msg.HTMLBody, "O piso mais crítico atualmente é:</strong> Piso A3</p>")
	assert.Contains(t, msg.HTMLBody, "ALERTA CRÍTICO")
}

func TestComposeAlert_EscapesFloor(t *testing.T) {
	msg, err := ComposeAlert("", "<script>x</script>", []string{"a@x.com"})
	require.NoError(t, err)
	assert.NotContains(t, msg.HTMLBody, "<script>")
	assert.Contains(t, msg.HTMLBody, "&lt;script&gt;")
}

func TestComposeAlert_Errors(t *testing.T) {
	_, err := ComposeAlert("", "   ", []string{"a@x.com"})
	assert.ErrorIs(t, err, ErrEmptyFloor)

	_, err = ComposeAlert("", "Piso 1", nil)
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = ComposeAlert("", "Piso 1", []string{"", "  "})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestSMTPConfig_Validate(t *testing.T) {
	valid := SMTPConfig{Host: "smtp.gmail.com", Port: 587, Username: "u@example.com", Password: "app-pass"}
	tests := []struct {
		name    string
		mutate  func(*SMTPConfig)
		wantErr bool
	}{
		{"valid", func(*SMTPConfig) {}, false},
		{"missing host", func(c *SMTPConfig) { c.Host = "" }, true},
		{"zero port", func(c *SMTPConfig) { c.Port = 0 }, true},
		{"port out of range", func(c *SMTPConfig) { c.Port = 70000 }, true},
		{"missing password", func(c *SMTPConfig) { c.Password = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewSMTPMailer_Defaults(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.gmail.com", Port: 587, Username: "u@example.com", Password: "p"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "u@example.com", m.Sender())

	_, err = NewSMTPMailer(SMTPConfig{}, nil)
	assert.Error(t, err)
}

func TestSMTPMailer_SendWithoutRecipients(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 2525, Username: "u", Password: "p"}, nil)
	require.NoError(t, err)
	err = m.Send(context.Background(), Message{Subject: "s"})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestSMTPMailer_SendFailureIsWrapped(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: 1, Username: "u", Password: "p"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	msg, err := ComposeAlert("from@example.com", "Piso 1", []string{"a@x.com"})
	require.NoError(t, err)

	err = m.Send(ctx, msg)
	assert.ErrorIs(t, err, ErrSendFailure)
}

func TestDisabledMailer(t *testing.T) {
	m := DisabledMailer{Reason: errors.New("smtp username and password are required")}

	err := m.Send(context.Background(), Message{To: []string{"a@x.com"}})
	assert.ErrorIs(t, err, ErrSendFailure)
	assert.Contains(t, err.Error(), "username and password")

	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrNoRecipients)
}
