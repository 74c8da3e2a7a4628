// Package client calls the remote reply endpoint and degrades to the
// local responder when the service is unreachable.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"serenity-chat/contract"
	"serenity-chat/observability"
)

const advisoryNotice = "Could not reach the AI service. Using fallback response."

type replyRequest struct {
	Message string `json:"message"`
}

type replyResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// HTTPReplyClient resolves replies over HTTPS POST.
// It never surfaces an error to the caller: every degraded call resolves
// to a Responder reply and records a one-shot advisory.
type HTTPReplyClient struct {
	url       string
	client    *http.Client
	responder contract.Responder
	log       *slog.Logger
	stats     *observability.Stats

	mu       sync.Mutex
	advisory string
}

func NewReplyClient(url string, timeout time.Duration, responder contract.Responder,
	log *slog.Logger, stats *observability.Stats) *HTTPReplyClient {
	return &HTTPReplyClient{
		url:       url,
		client:    &http.Client{Timeout: timeout},
		responder: responder,
		log:       log,
		stats:     stats,
	}
}

// GetReply posts the user text and returns the reply field of the body.
// Transport failures, non-2xx statuses, and unparseable bodies all route
// to the fallback responder.
func (c *HTTPReplyClient) GetReply(ctx context.Context, userText string) string {
	reqBytes, err := json.Marshal(replyRequest{Message: userText})
	if err != nil {
		return c.degrade(userText, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBytes))
	if err != nil {
		return c.degrade(userText, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.degrade(userText, "call endpoint", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return c.degrade(userText, "endpoint status",
			fmt.Errorf("status %s, body: %s", resp.Status, string(body)))
	}

	var parsed replyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return c.degrade(userText, "parse response", err)
	}
	return parsed.Response
}

// ConsumeAdvisory returns the pending advisory, clearing it so the
// notice is surfaced at most once per failed call.
func (c *HTTPReplyClient) ConsumeAdvisory() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.advisory == "" {
		return "", false
	}
	notice := c.advisory
	c.advisory = ""
	return notice, true
}

func (c *HTTPReplyClient) degrade(userText, stage string, err error) string {
	c.log.Warn("Remote reply degraded to fallback", "stage", stage, "error", err)
	c.stats.IncrFallbacksUsed()

	c.mu.Lock()
	c.advisory = advisoryNotice
	c.mu.Unlock()

	return c.responder.Respond(userText)
}
