package agent

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"StarTrade/internal/model"
)

// Role of a transcript entry author.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Entry is one message in a conversation.
type Entry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Message   string    `json:"message"`
	Pending   bool      `json:"pending,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PendingText is shown while a reply is outstanding.
const PendingText = "..."

// Store keeps per-conversation transcripts in memory.
type Store struct {
	mu            sync.Mutex
	conversations map[string][]Entry
	now           func() time.Time
}

func NewStore() *Store {
	return &Store{conversations: make(map[string][]Entry), now: time.Now}
}

// Open appends the user's message and a pending agent entry. An empty conversationID
// starts a new conversation. It returns the conversation and pending entry ids.
func (s *Store) Open(conversationID, message string) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	now := s.now()
	pending := Entry{ID: uuid.NewString(), Role: RoleAgent, Message: PendingText, Pending: true, Timestamp: now}
	s.conversations[conversationID] = append(s.conversations[conversationID],
		Entry{ID: uuid.NewString(), Role: RoleUser, Message: message, Timestamp: now},
		pending,
	)
	return conversationID, pending.ID
}

// Resolve replaces the pending entry with the reply, or with an error entry when
// err is non-nil.
func (s *Store) Resolve(conversationID, pendingID, reply string, err error) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.conversations[conversationID]
	for i := range entries {
		if entries[i].ID != pendingID || !entries[i].Pending {
			continue
		}
		e := Entry{ID: pendingID, Role: RoleAgent, Message: reply, Timestamp: s.now()}
		if err != nil {
			e.Message = "Error: " + err.Error()
			e.Failed = true
		}
		entries[i] = e
		return e, nil
	}
	return Entry{}, fmt.Errorf("%w: no pending entry %s in %s", model.ErrUnknownConversation, pendingID, conversationID)
}

// Transcript returns a copy of the conversation.
func (s *Store) Transcript(conversationID string) ([]Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.conversations[conversationID]
	if !ok {
		return nil, false
	}
	return append([]Entry(nil), entries...), true
}
