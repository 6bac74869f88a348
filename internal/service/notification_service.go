package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorly/tutor-api/internal/models"
	appErrors "github.com/tutorly/tutor-api/pkg/errors"
	"github.com/tutorly/tutor-api/pkg/jobs"
)

// recentNotificationLimit caps the reminder feed at the newest rows.
const recentNotificationLimit = 10

type notificationRepository interface {
	ListRecent(ctx context.Context, teacherID string, limit int) ([]models.NotificationDetail, error)
	MarkRead(ctx context.Context, id, teacherID string) error
	UnreadCount(ctx context.Context, teacherID string) (int, error)
}

// NotificationService reads the reminder feed and watches for new
// unread reminders on a fixed poll interval.
type NotificationService struct {
	repo    notificationRepository
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger

	interval time.Duration

	mu         sync.Mutex
	tracked    map[string]struct{}
	lastUnread map[string]int
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(repo notificationRepository, queue *jobs.Queue, metrics *MetricsService, logger *zap.Logger, interval time.Duration) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &NotificationService{
		repo:       repo,
		queue:      queue,
		metrics:    metrics,
		logger:     logger,
		interval:   interval,
		tracked:    make(map[string]struct{}),
		lastUnread: make(map[string]int),
	}
}

// List returns the ten newest dispatched reminders and registers the
// teacher for background polling.
func (s *NotificationService) List(ctx context.Context, teacherID string) ([]models.NotificationDetail, error) {
	notifications, err := s.repo.ListRecent(ctx, teacherID, recentNotificationLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}

	s.mu.Lock()
	s.tracked[teacherID] = struct{}{}
	s.mu.Unlock()

	return notifications, nil
}

// UnreadCount returns the number of unread reminders, never negative.
func (s *NotificationService) UnreadCount(ctx context.Context, teacherID string) (int, error) {
	count, err := s.repo.UnreadCount(ctx, teacherID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread notifications")
	}
	if count < 0 {
		count = 0
	}
	return count, nil
}

// MarkRead flips a single reminder to read.
func (s *NotificationService) MarkRead(ctx context.Context, teacherID, notificationID string) error {
	if err := s.repo.MarkRead(ctx, notificationID, teacherID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// StartPoller begins the background reminder watch. It stops when the
// context is cancelled.
func (s *NotificationService) StartPoller(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.logger.Info("reminder poller started", zap.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				s.logger.Info("reminder poller stopped")
				return
			case <-ticker.C:
				s.PollOnce(ctx)
			}
		}
	}()
}

// PollOnce runs one poll cycle over every tracked teacher. At most one
// cue is dispatched per teacher per cycle, however many new reminders
// arrived since the last one.
func (s *NotificationService) PollOnce(ctx context.Context) {
	s.mu.Lock()
	teachers := make([]string, 0, len(s.tracked))
	for teacherID := range s.tracked {
		teachers = append(teachers, teacherID)
	}
	s.mu.Unlock()

	for _, teacherID := range teachers {
		count, err := s.repo.UnreadCount(ctx, teacherID)
		if err != nil {
			s.logger.Warn("reminder poll failed", zap.String("teacher_id", teacherID), zap.Error(err))
			continue
		}
		if count < 0 {
			count = 0
		}

		s.mu.Lock()
		previous := s.lastUnread[teacherID]
		s.lastUnread[teacherID] = count
		s.mu.Unlock()

		cue := count > previous
		if cue && s.queue != nil {
			if err := s.queue.Enqueue(jobs.Task{
				ID:      uuid.NewString(),
				Kind:    "reminder_cue",
				Payload: teacherID,
			}); err != nil {
				s.logger.Warn("failed to enqueue reminder cue", zap.Error(err))
			}
		}
		s.metrics.RecordReminderPoll(cue)
	}
}
