package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/capstone-go-api/internal/dto"
	"github.com/noah-isme/capstone-go-api/internal/observability"
)

// Submission event actions fanned out to dashboards.
const (
	EventTaskSubmitted      = "task.submitted"
	EventSubmissionReviewed = "submission.reviewed"
	EventSubmissionRejected = "submission.rejected"
	EventSubmissionResubmit = "submission.resubmitted"
)

// SubmissionEvent is the wire payload published on status changes.
type SubmissionEvent struct {
	Source     string                 `json:"source"`
	Action     string                 `json:"action"`
	Submission dto.SubmissionResponse `json:"submission"`
	SentAt     time.Time              `json:"sent_at"`
}

// SubmissionEventPublisher fans out status-change events. Publishing is best
// effort; delivery failures never fail the originating request.
type SubmissionEventPublisher interface {
	Publish(ctx context.Context, action string, submission dto.SubmissionResponse)
}

type submissionEvents struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	nodeID       string
}

// NewSubmissionEventPublisher constructs a NATS/Redis publisher. Either
// connection may be nil; a nil publisher target is skipped.
func NewSubmissionEventPublisher(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) SubmissionEventPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":submissions"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".submissions"
	}

	return &submissionEvents{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "submission_events").Logger(),
		nodeID:       uuid.NewString(),
	}
}

func (p *submissionEvents) Publish(ctx context.Context, action string, submission dto.SubmissionResponse) {
	event := SubmissionEvent{
		Source:     p.nodeID,
		Action:     action,
		Submission: submission,
		SentAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode submission event")
		return
	}

	if p.redis != nil && p.redisChannel != "" {
		if err := p.redis.Publish(ctx, p.redisChannel, payload).Err(); err != nil {
			p.logger.Warn().Err(err).Str("action", action).Msg("failed to publish submission event to redis")
		}
	}

	if p.nats != nil && p.natsSubject != "" {
		if err := p.nats.Publish(p.natsSubject, payload); err != nil {
			p.logger.Warn().Err(err).Str("action", action).Msg("failed to publish submission event to nats")
		}
	}

	observability.SubmissionEvents().WithLabelValues(action).Inc()
}
