package kafka

import (
	"context"
	"encoding/json"

	log "github.com/nguyentranbao-ct/shopping-search/pkg/logger/logctx"
	"github.com/segmentio/kafka-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type MessageHandler interface {
	HandleMessage(ctx context.Context, msg kafka.Message) error
}

// SessionSignOuter is the part of the session manager the consumer drives.
type SessionSignOuter interface {
	SignOutUser(ctx context.Context, userID string) int
}

type identityEventHandler struct {
	sessions SessionSignOuter
}

func NewIdentityEventHandler(sessions SessionSignOuter) MessageHandler {
	return &identityEventHandler{sessions: sessions}
}

func (h *identityEventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event IdentityEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return status.Errorf(codes.InvalidArgument, "unmarshal identity event: %v", err)
	}

	if event.Pattern != PatternUserSignedOut {
		log.Debugw(ctx, "ignoring identity event", "pattern", event.Pattern)
		return nil
	}
	if event.Data.UserID == "" {
		return status.Error(codes.InvalidArgument, "user.signed_out without user_id")
	}

	n := h.sessions.SignOutUser(ctx, event.Data.UserID)
	log.Infow(ctx, "signed out user sessions", "user_id", event.Data.UserID, "sessions", n)
	return nil
}
