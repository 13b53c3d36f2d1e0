package agent

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"StarTrade/internal/metrics"
	"StarTrade/internal/model"
	"StarTrade/pkg/logger"
)

// Sender delivers one chat request and returns the reply text.
type Sender interface {
	Send(ctx context.Context, req Request) (string, error)
}

// Relay forwards chat messages and records them in a transcript.
type Relay struct {
	sender Sender
	store  *Store
	log    *zap.Logger
}

func NewRelay(sender Sender, store *Store) *Relay {
	return &Relay{sender: sender, store: store, log: logger.Named("agent")}
}

// Transcript returns a copy of one conversation.
func (r *Relay) Transcript(conversationID string) ([]Entry, bool) {
	return r.store.Transcript(conversationID)
}

// Chat records the user's message with a pending reply, forwards it, and replaces the
// pending entry with the outcome. The returned entry is the resolved agent entry; a
// backend failure is reported through the entry and the error.
func (r *Relay) Chat(ctx context.Context, req Request) (string, Entry, error) {
	convID, pendingID := r.store.Open(req.ConversationID, req.Message)
	req.ConversationID = convID

	reply, sendErr := r.sender.Send(ctx, req)
	metrics.ChatRequests.WithLabelValues(chatOutcome(sendErr)).Inc()
	if sendErr != nil {
		r.log.Warn("chat relay failed", zap.String("conversation", convID), zap.Error(sendErr))
	}

	entry, err := r.store.Resolve(convID, pendingID, reply, sendErr)
	if err != nil {
		return convID, Entry{}, err
	}
	return convID, entry, sendErr
}

func chatOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, model.ErrNetworkFailure):
		return metrics.OutcomeNetwork
	default:
		return metrics.OutcomeError
	}
}
