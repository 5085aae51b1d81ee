package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"typoteka/internal/middleware"
	"typoteka/internal/models"
	"typoteka/internal/notifications"
	"typoteka/internal/observability"
)

const publishTimeout = 5 * time.Second

// CommentCreatedPayload is the body of a comment:create event.
type CommentCreatedPayload struct {
	Comment               *models.Comment   `json:"comment"`
	BestCommentedArticles []*models.Article `json:"bestCommentedArticles"`
}

// publishCommentCreated recomputes the ranking and broadcasts it in the
// background. The HTTP response never waits for it and failures are only logged.
func (s *Server) publishCommentCreated(comment *models.Comment) {
	if s.publisher == nil {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				observability.RealtimeEventsPublished.WithLabelValues(notifications.EventCommentCreate, "failed").Inc()
				middleware.Logger.Error("realtime publish panicked", slog.String("panic", fmt.Sprint(r)))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.publishCommentEvent(ctx, comment); err != nil {
			observability.RealtimeEventsPublished.WithLabelValues(notifications.EventCommentCreate, "failed").Inc()
			middleware.Logger.Warn("failed to publish realtime event",
				slog.String("event", notifications.EventCommentCreate),
				slog.Uint64("comment_id", uint64(comment.ID)),
				slog.String("error", err.Error()),
			)
			return
		}
		observability.RealtimeEventsPublished.WithLabelValues(notifications.EventCommentCreate, "ok").Inc()
	}()
}

func (s *Server) publishCommentEvent(ctx context.Context, comment *models.Comment) error {
	best, err := s.homeService.BestCommented(ctx)
	if err != nil {
		return fmt.Errorf("rank articles: %w", err)
	}
	return s.publisher.Publish(ctx, notifications.Event{
		Type: notifications.EventCommentCreate,
		Payload: CommentCreatedPayload{
			Comment:               comment,
			BestCommentedArticles: best,
		},
	})
}
