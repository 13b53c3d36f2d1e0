package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StarTrade/internal/model"
)

func TestExtractReply(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", NoReply},
		{"null", "null", NoReply},
		{"string", `"hello"`, "hello"},
		{"message first", `{"answer":"a","message":"m"}`, "m"},
		{"answer", `{"answer":"a","text":"t"}`, "a"},
		{"skips empty", `{"message":"","reply":"r"}`, "r"},
		{"response", `{"response":"resp"}`, "resp"},
		{"text", `{"text":"t"}`, "t"},
		{"non-string field", `{"message":42,"text":"t"}`, "t"},
		{"fallback raw", `{"data":1}`, `{"data":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractReply([]byte(tc.body)))
		})
	}
}

func TestClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "how is AAPL?", req.Message)
		assert.Equal(t, []string{}, req.Portfolio)
		_, _ = w.Write([]byte(`{"answer":"looks fine"}`))
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL, time.Second).Send(context.Background(), Request{Message: "how is AAPL?"})
	require.NoError(t, err)
	assert.Equal(t, "looks fine", reply)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"boom"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Send(context.Background(), Request{Message: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error (500)")
	assert.NotErrorIs(t, err, model.ErrNetworkFailure)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Send(context.Background(), Request{Message: "x"})
	assert.ErrorIs(t, err, model.ErrNetworkFailure)
}

type senderFunc func(ctx context.Context, req Request) (string, error)

func (f senderFunc) Send(ctx context.Context, req Request) (string, error) { return f(ctx, req) }

func TestRelay_ReplacesPendingEntry(t *testing.T) {
	store := NewStore()
	var seenPending bool
	relay := NewRelay(senderFunc(func(_ context.Context, req Request) (string, error) {
		entries, ok := store.Transcript(req.ConversationID)
		require.True(t, ok)
		require.Len(t, entries, 2)
		seenPending = entries[1].Pending && entries[1].Message == PendingText
		return "hi there", nil
	}), store)

	convID, entry, err := relay.Chat(context.Background(), Request{Message: "hello"})
	require.NoError(t, err)
	assert.True(t, seenPending)
	assert.NotEmpty(t, convID)
	assert.Equal(t, "hi there", entry.Message)
	assert.False(t, entry.Pending)

	entries, _ := store.Transcript(convID)
	require.Len(t, entries, 2)
	assert.Equal(t, RoleUser, entries[0].Role)
	assert.Equal(t, "hello", entries[0].Message)
	assert.Equal(t, entry, entries[1])
}

func TestRelay_FailureBecomesErrorEntry(t *testing.T) {
	store := NewStore()
	relay := NewRelay(senderFunc(func(context.Context, Request) (string, error) {
		return "", errors.New("backend down")
	}), store)

	convID, entry, err := relay.Chat(context.Background(), Request{Message: "hello", ConversationID: "c1"})
	require.Error(t, err)
	assert.Equal(t, "c1", convID)
	assert.True(t, entry.Failed)
	assert.Equal(t, "Error: backend down", entry.Message)

	entries, _ := store.Transcript("c1")
	for _, e := range entries {
		assert.False(t, e.Pending)
	}
}

func TestRelay_ConversationAccumulates(t *testing.T) {
	store := NewStore()
	relay := NewRelay(senderFunc(func(_ context.Context, req Request) (string, error) {
		return "re: " + req.Message, nil
	}), store)

	convID, _, err := relay.Chat(context.Background(), Request{Message: "one"})
	require.NoError(t, err)
	_, _, err = relay.Chat(context.Background(), Request{Message: "two", ConversationID: convID})
	require.NoError(t, err)

	entries, ok := store.Transcript(convID)
	require.True(t, ok)
	require.Len(t, entries, 4)
	assert.Equal(t, "re: two", entries[3].Message)
}

func TestStore_ResolveUnknown(t *testing.T) {
	store := NewStore()
	_, err := store.Resolve("missing", "x", "r", nil)
	assert.ErrorIs(t, err, model.ErrUnknownConversation)

	convID, pendingID := store.Open("", "q")
	_, err = store.Resolve(convID, pendingID, "a", nil)
	require.NoError(t, err)
	_, err = store.Resolve(convID, pendingID, "b", nil)
	assert.ErrorIs(t, err, model.ErrUnknownConversation)

	_, ok := store.Transcript("missing")
	assert.False(t, ok)
}
