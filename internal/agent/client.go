package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"StarTrade/internal/model"
)

// Request is the body forwarded to the agent backend.
type Request struct {
	Message        string   `json:"message"`
	Portfolio      []string `json:"portfolio"`
	ConversationID string   `json:"conversation_id,omitempty"`
}

// NoReply is used when the backend answers with an empty body.
const NoReply = "No response from server."

// replyFields are checked in order; the first non-empty string wins.
var replyFields = []string{"message", "answer", "reply", "response", "text"}

// Client posts chat messages to the agent backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Send posts req to /api/chat and extracts the reply text.
func (c *Client) Send(ctx context.Context, req Request) (string, error) {
	if req.Portfolio == nil {
		req.Portfolio = []string{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("could not reach agent backend: %w: %w", model.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read agent reply: %w: %w", model.ErrNetworkFailure, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("server error (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return ExtractReply(data), nil
}

// ExtractReply pulls the reply text out of a backend response body. A JSON string is
// returned as is; an object yields its first non-empty reply field; anything else is
// returned verbatim.
func ExtractReply(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return NoReply
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if s == "" {
			return NoReply
		}
		return s
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		for _, field := range replyFields {
			raw, ok := obj[field]
			if !ok {
				continue
			}
			var v string
			if err := json.Unmarshal(raw, &v); err == nil && v != "" {
				return v
			}
		}
	}
	return string(trimmed)
}
