// internal/app/notification_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// NotificationService runs one fetch-validate-render-deliver cycle.
type NotificationService interface {
	RunCycle(ctx context.Context) error
}

// NotificationServiceImpl owns the cursor and the delivered-message markers.
// They live only for the process lifetime.
type NotificationServiceImpl struct {
	source         homework.Source
	telegramClient domainTelegram.Client
	chatID         int64
	retryWindow    time.Duration
	reportErrors   bool
	logger         *logrus.Entry
	now            func() time.Time

	mu     sync.Mutex
	cursor int64
	// sent holds the last delivered text per homework name, so an unchanged
	// record is suppressed even when the response carries several records.
	sent       map[string]string
	lastSent   string
	lastReport string
}

func NewNotificationServiceImpl(
	source homework.Source,
	tc domainTelegram.Client,
	chatID int64,
	retryWindow time.Duration,
	reportErrors bool,
	logger *logrus.Entry,
) *NotificationServiceImpl {
	s := &NotificationServiceImpl{
		source:         source,
		telegramClient: tc,
		chatID:         chatID,
		retryWindow:    retryWindow,
		reportErrors:   reportErrors,
		logger:         logger,
		now:            time.Now,
		sent:           make(map[string]string),
	}
	s.cursor = s.now().Unix()
	return s
}

// RunCycle performs a single poll. Errors are logged here and also returned
// so the scheduler can record the cycle as failed.
func (s *NotificationServiceImpl) RunCycle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.runCycleLocked(ctx)
	if err == nil {
		s.lastReport = ""
		return nil
	}

	s.logger.WithError(err).Error("Homework status cycle failed")
	if s.reportErrors && !errors.Is(err, homework.ErrDelivery) {
		s.reportFailureLocked(ctx, fmt.Sprintf("Сбой в работе программы: %v", err))
	}
	return err
}

// reportFailureLocked sends a failure report once per distinct failure.
// It never touches the status markers.
func (s *NotificationServiceImpl) reportFailureLocked(ctx context.Context, text string) {
	if text == s.lastReport {
		return
	}
	if err := s.telegramClient.SendMessage(ctx, s.chatID, text); err != nil {
		s.logger.WithError(err).Error("Failed to send failure report")
		return
	}
	s.lastReport = text
}

func (s *NotificationServiceImpl) runCycleLocked(ctx context.Context) error {
	fromDate := s.cursor - int64(s.retryWindow/time.Second)
	logCtx := s.logger.WithField("from_date", fromDate)

	response, err := s.source.Fetch(ctx, fromDate)
	if err != nil {
		return err
	}
	s.cursor = s.now().Unix()

	records, err := homework.Validate(response)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		logCtx.Debug("No new homework statuses in response")
		return nil
	}
	logCtx.WithField("records", len(records)).Debug("Homework statuses received")

	for _, r := range records {
		message, err := homework.Render(r)
		if err != nil {
			return err
		}
		if err := s.deliverLocked(ctx, r.Name, message); err != nil {
			return err
		}
	}
	return nil
}

// Deliver sends text unless it equals the last message delivered through Deliver.
func (s *NotificationServiceImpl) Deliver(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deliverLocked(ctx, "", text)
}

func (s *NotificationServiceImpl) deliverLocked(ctx context.Context, key, text string) error {
	logCtx := s.logger.WithField("chat_id", s.chatID)
	if prev, ok := s.sent[key]; ok && prev == text {
		logCtx.Debug("Message unchanged since last delivery, not sending")
		return nil
	}

	if err := s.telegramClient.SendMessage(ctx, s.chatID, text); err != nil {
		logCtx.WithError(err).Error("Failed to send message")
		return fmt.Errorf("%w: %w", homework.ErrDelivery, err)
	}

	s.sent[key] = text
	s.lastSent = text
	logCtx.WithField("text", text).Info("Message sent")
	return nil
}

// LastSent returns the most recently delivered message.
func (s *NotificationServiceImpl) LastSent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSent
}
