package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/readify/internal/logger"
	"github.com/sbilibin2017/readify/internal/models"
	"github.com/sbilibin2017/readify/internal/repositories"
	"github.com/sbilibin2017/readify/internal/validation"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=activity.go -destination=activity_mock.go -package=services

// CreatePolicy decides what creating an already existing (user, book) activity does.
type CreatePolicy string

const (
	// PolicyIdempotent returns the existing activity unchanged.
	PolicyIdempotent CreatePolicy = "idempotent"
	// PolicyAlwaysInsert inserts another activity for the same pair.
	PolicyAlwaysInsert CreatePolicy = "always_insert"
	// PolicyReject fails with ErrActivityAlreadyExists.
	PolicyReject CreatePolicy = "reject"
)

// ParseCreatePolicy parses a policy name. An empty name selects PolicyIdempotent.
func ParseCreatePolicy(s string) (CreatePolicy, error) {
	switch p := CreatePolicy(s); p {
	case "":
		return PolicyIdempotent, nil
	case PolicyIdempotent, PolicyAlwaysInsert, PolicyReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown activity create policy %q", s)
	}
}

// UniquePairs reports whether the policy relies on at most one activity per (user, book).
func (p CreatePolicy) UniquePairs() bool {
	return p != PolicyAlwaysInsert
}

// ActivityReader defines read-only operations for activities.
type ActivityReader interface {
	GetByID(ctx context.Context, activityID int64) (*models.ActivityDB, error)
	GetByUserAndBook(ctx context.Context, userID, bookID int64) (*models.ActivityDB, error)
	ListByUser(ctx context.Context, userID int64) ([]models.ActivityDB, error)
	ListRecent(ctx context.Context, limit int) ([]models.ActivityDB, error)
}

// ActivityWriter defines write operations for activities.
type ActivityWriter interface {
	LockUser(ctx context.Context, userID int64) error
	Save(ctx context.Context, userID, bookID int64, status string, progress int, isFavorite bool) (*models.ActivityDB, error)
	Update(ctx context.Context, activity *models.ActivityDB) (bool, error)
	Delete(ctx context.Context, activityID int64) (bool, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// ActivityService maintains users' libraries and publishes every change.
type ActivityService struct {
	resolver    *Resolver
	reader      ActivityReader
	writer      ActivityWriter
	kafkaWriter KafkaWriter
	policy      CreatePolicy
}

// NewActivityService creates a new ActivityService. kafkaWriter may be nil.
func NewActivityService(
	resolver *Resolver,
	reader ActivityReader,
	writer ActivityWriter,
	kafkaWriter KafkaWriter,
	policy CreatePolicy,
) *ActivityService {
	return &ActivityService{
		resolver:    resolver,
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
		policy:      policy,
	}
}

// publish publishes an activity event to Kafka.
func (s *ActivityService) publish(ctx context.Context, eventType string, a *models.ActivityDB) {
	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "type", eventType, "activity_id", a.ActivityID)
		return
	}

	event := models.ActivityEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Timestamp:  time.Now().Unix(),
		ActivityID: a.ActivityID,
		UserID:     a.UserID,
		BookID:     a.BookID,
		Status:     a.Status,
		Progress:   a.Progress,
		IsFavorite: a.IsFavorite,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal activity event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(a.ActivityID, 10)),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish activity event to Kafka", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("Activity event published to Kafka", "event_id", event.EventID, "type", eventType, "activity_id", a.ActivityID)
	}
}

func checkStatus(status string) error {
	if !validation.IsKnownStatus(status) {
		logger.Log.Errorw("invalid activity status", "status", status)
		return ErrInvalidStatus
	}
	return nil
}

func checkProgress(progress int) error {
	if progress < 0 {
		logger.Log.Errorw("invalid activity progress", "progress", progress)
		return ErrInvalidProgress
	}
	return nil
}

// AddToLibrary resolves the user by username and creates the activity.
// Only the user themselves may add to their library.
func (s *ActivityService) AddToLibrary(ctx context.Context, callerID int64, username string, bookID int64, status string, progress int) (*models.ActivityDB, bool, error) {
	user, err := s.resolver.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, ErrUserNotFound
	}
	if user.UserID != callerID {
		logger.Log.Warnw("library modification by another user", "username", username, "caller_id", callerID)
		return nil, false, ErrForbidden
	}
	return s.Create(ctx, user.UserID, bookID, status, progress)
}

// Create adds the book to the user's library. An empty status means wishlist.
// The returned flag is false when an existing activity was returned instead
// of inserting a new one.
//
// Unless the policy is PolicyAlwaysInsert, the existence check and the insert
// run under a row lock on the user, so it must be called inside a transaction.
func (s *ActivityService) Create(ctx context.Context, userID, bookID int64, status string, progress int) (*models.ActivityDB, bool, error) {
	if status == "" {
		status = models.StatusWishlist
	}
	if err := checkStatus(status); err != nil {
		return nil, false, err
	}
	if err := checkProgress(progress); err != nil {
		return nil, false, err
	}

	user, err := s.resolver.FindUserByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, ErrUserNotFound
	}

	book, err := s.resolver.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, false, err
	}
	if book == nil {
		return nil, false, ErrBookNotFound
	}

	if s.policy.UniquePairs() {
		if err := s.writer.LockUser(ctx, userID); err != nil {
			logger.Log.Errorw("failed to lock user", "user_id", userID, "err", err)
			return nil, false, err
		}

		existing, err := s.existing(ctx, userID, bookID)
		if err != nil || existing != nil {
			return existing, false, err
		}
	}

	activity, err := s.writer.Save(ctx, userID, bookID, status, progress, false)
	if errors.Is(err, repositories.ErrUniqueViolation) && s.policy.UniquePairs() {
		logger.Log.Warnw("activity inserted concurrently", "user_id", userID, "book_id", bookID)
		existing, err := s.existing(ctx, userID, bookID)
		if err == nil && existing == nil {
			err = ErrActivityAlreadyExists
		}
		return existing, false, err
	}
	if err != nil {
		logger.Log.Errorw("failed to save activity", "user_id", userID, "book_id", bookID, "err", err)
		return nil, false, err
	}

	activity.Book = *book
	s.publish(ctx, models.EventActivityCreated, activity)

	return activity, true, nil
}

// existing applies the create policy to an activity already stored for the pair.
func (s *ActivityService) existing(ctx context.Context, userID, bookID int64) (*models.ActivityDB, error) {
	activity, err := s.reader.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		logger.Log.Errorw("failed to get activity", "user_id", userID, "book_id", bookID, "err", err)
		return nil, err
	}
	if activity == nil {
		return nil, nil
	}
	if s.policy == PolicyReject {
		logger.Log.Errorw("activity already exists", "user_id", userID, "book_id", bookID)
		return nil, ErrActivityAlreadyExists
	}
	return activity, nil
}

// owned returns the activity if it belongs to the caller. A missing activity
// yields nil without error.
func (s *ActivityService) owned(ctx context.Context, callerID, activityID int64) (*models.ActivityDB, error) {
	activity, err := s.reader.GetByID(ctx, activityID)
	if err != nil {
		logger.Log.Errorw("failed to get activity", "activity_id", activityID, "err", err)
		return nil, err
	}
	if activity != nil && activity.UserID != callerID {
		logger.Log.Warnw("activity modification by another user", "activity_id", activityID, "caller_id", callerID)
		return nil, ErrForbidden
	}
	return activity, nil
}

// Update applies the fields set in patch and leaves the others untouched.
// The activity must belong to the caller.
func (s *ActivityService) Update(ctx context.Context, callerID, activityID int64, patch models.ActivityPatch) (*models.ActivityDB, error) {
	if v, ok := patch.Status.Get(); ok {
		if err := checkStatus(v); err != nil {
			return nil, err
		}
	}
	if v, ok := patch.Progress.Get(); ok {
		if err := checkProgress(v); err != nil {
			return nil, err
		}
	}

	activity, err := s.owned(ctx, callerID, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	if !patch.Apply(activity) {
		return activity, nil
	}

	ok, err := s.writer.Update(ctx, activity)
	if err != nil {
		logger.Log.Errorw("failed to update activity", "activity_id", activityID, "err", err)
		return nil, err
	}
	if !ok {
		return nil, ErrActivityNotFound
	}

	s.publish(ctx, models.EventActivityUpdated, activity)
	return activity, nil
}

// Delete removes the caller's activity and reports whether it existed.
func (s *ActivityService) Delete(ctx context.Context, callerID, activityID int64) (bool, error) {
	activity, err := s.owned(ctx, callerID, activityID)
	if err != nil || activity == nil {
		return false, err
	}

	deleted, err := s.writer.Delete(ctx, activityID)
	if err != nil {
		logger.Log.Errorw("failed to delete activity", "activity_id", activityID, "err", err)
		return false, err
	}
	if deleted {
		s.publish(ctx, models.EventActivityDeleted, activity)
	}
	return deleted, nil
}

// Find returns the activity linking the user and the book, or nil.
func (s *ActivityService) Find(ctx context.Context, userID, bookID int64) (*models.ActivityDB, error) {
	activity, err := s.reader.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		logger.Log.Errorw("failed to get activity", "user_id", userID, "book_id", bookID, "err", err)
		return nil, err
	}
	return activity, nil
}

// GetLibraryEntry returns the user's activity for the book.
func (s *ActivityService) GetLibraryEntry(ctx context.Context, username string, bookID int64) (*models.ActivityDB, error) {
	user, err := s.resolver.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	activity, err := s.Find(ctx, user.UserID, bookID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// ListForUser returns the user's library.
func (s *ActivityService) ListForUser(ctx context.Context, username string) ([]models.ActivityDB, error) {
	user, err := s.resolver.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	activities, err := s.reader.ListByUser(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to list activities", "user_id", user.UserID, "err", err)
		return nil, err
	}
	return activities, nil
}

// ListRecent returns the latest activities across all users, newest first.
func (s *ActivityService) ListRecent(ctx context.Context, limit int) ([]models.ActivityDB, error) {
	activities, err := s.reader.ListRecent(ctx, limit)
	if err != nil {
		logger.Log.Errorw("failed to list recent activities", "limit", limit, "err", err)
		return nil, err
	}
	return activities, nil
}
