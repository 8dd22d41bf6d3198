package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BradenHooton/userservice/internal/config"
	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
)

// DeleteUserMessage is published by the identity provider when an account is closed
type DeleteUserMessage struct {
	UserID int64 `json:"userId"`
}

// UserDeleter removes a user with everything hanging off it
type UserDeleter interface {
	DeleteUserIfExists(ctx context.Context, id int64) (bool, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	minRetryDelay = 500 * time.Millisecond
	maxRetryDelay = 30 * time.Second
)

// DeleteUserConsumer deletes users named on the delete-user topic. A message is
// committed once handled; failed deletions are retried until they succeed or the
// consumer stops, so nothing is lost.
type DeleteUserConsumer struct {
	reader     messageReader
	users      UserDeleter
	logger     *slog.Logger
	newBackOff func() backoff.BackOff
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewDeleteUserConsumer joins the configured consumer group
func NewDeleteUserConsumer(cfg config.QueueConfig, users UserDeleter, logger *slog.Logger) *DeleteUserConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.DeleteUserTopic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	return newDeleteUserConsumer(reader, users, logger)
}

func newDeleteUserConsumer(reader messageReader, users UserDeleter, logger *slog.Logger) *DeleteUserConsumer {
	return &DeleteUserConsumer{
		reader:     reader,
		users:      users,
		logger:     logger,
		newBackOff: defaultBackOff,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// defaultBackOff doubles from minRetryDelay up to maxRetryDelay and never gives up
func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = minRetryDelay
	b.MaxInterval = maxRetryDelay
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	return b
}

// Start consumes until ctx is cancelled or Stop is called
func (c *DeleteUserConsumer) Start(ctx context.Context) {
	defer close(c.doneCh)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	c.logger.Info("delete user consumer started")
	for {
		msg, err := c.fetch(ctx)
		if err != nil {
			c.logger.Info("delete user consumer stopped")
			return
		}

		if err := c.handleWithRetry(ctx, msg); err != nil {
			// only cancellation gets here; the message stays uncommitted
			return
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Error("kafka commit failed",
				slog.Int("partition", msg.Partition), slog.Int64("offset", msg.Offset), slog.Any("error", err))
		}
	}
}

// Stop signals the consumer to stop, waits for it and closes the reader.
// Only call it after Start has been launched.
func (c *DeleteUserConsumer) Stop() error {
	close(c.stopCh)
	<-c.doneCh
	return c.reader.Close()
}

// fetch returns the next message, retrying broker errors until ctx ends
func (c *DeleteUserConsumer) fetch(ctx context.Context) (kafka.Message, error) {
	var msg kafka.Message
	err := backoff.RetryNotify(func() error {
		var err error
		msg, err = c.reader.FetchMessage(ctx)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}, backoff.WithContext(c.newBackOff(), ctx), func(err error, next time.Duration) {
		c.logger.Error("kafka fetch failed", slog.Duration("retry_in", next), slog.Any("error", err))
	})
	return msg, err
}

// handleWithRetry returns an error only when ctx ends before msg was handled
func (c *DeleteUserConsumer) handleWithRetry(ctx context.Context, msg kafka.Message) error {
	return backoff.RetryNotify(func() error {
		return c.handle(ctx, msg)
	}, backoff.WithContext(c.newBackOff(), ctx), func(err error, next time.Duration) {
		c.logger.Error("failed to process delete user message",
			slog.Int("partition", msg.Partition),
			slog.Int64("offset", msg.Offset),
			slog.Duration("retry_in", next),
			slog.Any("error", err))
	})
}

// handle deletes the user named in msg. Undecodable messages are logged and skipped.
func (c *DeleteUserConsumer) handle(ctx context.Context, msg kafka.Message) error {
	payload, err := DecodeDeleteUserMessage(msg.Value)
	if err != nil {
		c.logger.Warn("skipping undecodable delete user message",
			slog.Int("partition", msg.Partition), slog.Int64("offset", msg.Offset), slog.Any("error", err))
		return nil
	}

	c.logger.Info("attempting to delete user", slog.Int64("user_id", payload.UserID))
	deleted, err := c.users.DeleteUserIfExists(ctx, payload.UserID)
	if err != nil {
		return err
	}
	if deleted {
		c.logger.Info("user deleted", slog.Int64("user_id", payload.UserID))
	}
	return nil
}

// DecodeDeleteUserMessage parses and checks a delete-user payload
func DecodeDeleteUserMessage(data []byte) (*DeleteUserMessage, error) {
	var msg DeleteUserMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode delete user message: %w", err)
	}
	if msg.UserID <= 0 {
		return nil, errors.New("delete user message has no user id")
	}
	return &msg, nil
}
