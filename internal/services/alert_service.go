package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"floorcheck/internal/auth"
	"floorcheck/internal/notify"
	"floorcheck/internal/recipients"
	"floorcheck/pkg/contracts/domain"
	"floorcheck/pkg/contracts/events"
)

// RecipientStore persists the alert distribution list.
type RecipientStore interface {
	Load() ([]string, error)
	Add(addr string) ([]string, error)
	Reset() ([]string, error)
	Default() string
}

// WebSocketHub pushes events to open dashboards.
type WebSocketHub interface {
	Broadcast(messageType string, data interface{})
}

// AlertRecorder counts alert attempts.
type AlertRecorder interface {
	RecordAlert(ctx context.Context, recipients int, err error)
}

// AlertService manages recipients and sends critical floor alerts.
type AlertService struct {
	store   RecipientStore
	mailer  notify.Mailer
	from    string
	hub     WebSocketHub
	metrics AlertRecorder
	now     func() time.Time
	logger  *slog.Logger
}

// NewAlertService creates an alert service. hub and metrics may be nil.
func NewAlertService(store RecipientStore, mailer notify.Mailer, from string, hub WebSocketHub, metrics AlertRecorder, logger *slog.Logger) *AlertService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertService{
		store:   store,
		mailer:  mailer,
		from:    from,
		hub:     hub,
		metrics: metrics,
		now:     time.Now,
		logger:  logger.With(slog.String("service", "alerts")),
	}
}

// Recipients returns the current list. A list that cannot be read is
// reported in LoadError and shown as empty.
func (s *AlertService) Recipients(ctx context.Context) domain.RecipientsView {
	list, err := s.load(ctx)
	view := domain.RecipientsView{Recipients: list, Default: s.store.Default()}
	if err != nil {
		view.LoadError = err.Error()
	}
	return view
}

// AddRecipient appends addr and returns the updated list.
func (s *AlertService) AddRecipient(ctx context.Context, addr string) (domain.RecipientsView, error) {
	list, err := s.store.Add(addr)
	if err != nil {
		return domain.RecipientsView{}, fmt.Errorf("add recipient: %w", err)
	}
	s.logger.InfoContext(ctx, "recipient added",
		slog.String("email", strings.TrimSpace(addr)),
		slog.Int("recipients", len(list)))
	return domain.RecipientsView{Recipients: list, Default: s.store.Default()}, nil
}

// ResetRecipients restores the list to the default recipient.
func (s *AlertService) ResetRecipients(ctx context.Context) (domain.RecipientsView, error) {
	list, err := s.store.Reset()
	if err != nil {
		return domain.RecipientsView{}, fmt.Errorf("reset recipients: %w", err)
	}
	s.logger.InfoContext(ctx, "recipients reset", slog.String("default", s.store.Default()))
	return domain.RecipientsView{Recipients: list, Default: s.store.Default()}, nil
}

// Send emails the critical floor alert to every recipient in one submission.
func (s *AlertService) Send(ctx context.Context, floor string, by auth.Principal) (domain.AlertResult, error) {
	floor = strings.TrimSpace(floor)
	if floor == "" {
		return domain.AlertResult{}, notify.ErrEmptyFloor
	}

	list, _ := s.load(ctx)
	msg, err := notify.ComposeAlert(s.from, floor, list)
	if err != nil {
		return domain.AlertResult{}, err
	}

	err = s.mailer.Send(ctx, msg)
	if s.metrics != nil {
		s.metrics.RecordAlert(ctx, len(msg.To), err)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "critical floor alert failed",
			slog.String("critical_floor", floor),
			slog.String("user", by.Username),
			slog.String("error", err.Error()))
		return domain.AlertResult{}, err
	}

	result := domain.AlertResult{
		CriticalFloor: floor,
		Recipients:    msg.To,
		Subject:       msg.Subject,
		SentAt:        s.now(),
	}
	s.logger.InfoContext(ctx, "critical floor alert sent",
		slog.String("critical_floor", floor),
		slog.Int("recipients", len(msg.To)),
		slog.String("user", by.Username))

	if s.hub != nil {
		s.hub.Broadcast(string(events.MessageTypeAlertSent), events.AlertSent{
			CriticalFloor: floor,
			Recipients:    len(msg.To),
			SentBy:        by.Username,
		})
	}
	return result, nil
}

func (s *AlertService) load(ctx context.Context) ([]string, error) {
	list, err := s.store.Load()
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, recipients.ErrLoadFailure) {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "RecipientsLoadFailure",
			slog.String("error", err.Error()))
		return []string{}, err
	}
	return list, nil
}
