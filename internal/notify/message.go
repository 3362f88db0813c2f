package notify

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// AlertSubject is the subject line of every critical floor alert.
const AlertSubject = "⚠️ Alerta Crítico: Piso em Condição Crítica"

var (
	// ErrNoRecipients is returned when a message has nobody to go to.
	ErrNoRecipients = errors.New("no recipients")

	// ErrEmptyFloor is returned when the critical floor is blank.
	ErrEmptyFloor = errors.New("critical floor is required")

	// ErrSendFailure wraps any error raised while submitting a message.
	ErrSendFailure = errors.New("notification send failure")
)

// Message is a composed HTML email.
type Message struct {
	From     string
	To       []string
	Subject  string
	HTMLBody string
}

var alertBody = template.Must(template.New("alert").Parse(`<html>
    <body>
        <h2 style="color: red;">⚠️ ALERTA CRÍTICO</h2>
        <p>Olá,</p>
        <p><strong>O piso mais crítico atualmente é:</strong> {{.Floor}}</p>
        <p>Por favor, verifique a situação o mais rápido possível.</p>
        <br>
        <p>🔍 <i>Este e-mail foi enviado automaticamente pelo sistema de monitoramento.</i></p>
    </body>
</html>
`))

// ComposeAlert builds the alert naming floor for the given recipients.
func ComposeAlert(from, floor string, to []string) (Message, error) {
	floor = strings.TrimSpace(floor)
	if floor == "" {
		return Message{}, ErrEmptyFloor
	}
	recipients := make([]string, 0, len(to))
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		return Message{}, ErrNoRecipients
	}

	var body bytes.Buffer
	if err := alertBody.Execute(&body, struct{ Floor string }{floor}); err != nil {
		return Message{}, fmt.Errorf("failed to render alert body: %w", err)
	}
	return Message{
		From:     from,
		To:       recipients,
		Subject:  AlertSubject,
		HTMLBody: body.String(),
	}, nil
}
