package client_test

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"serenity-chat/client"
	"serenity-chat/fallback"
	"serenity-chat/mocks"
	"serenity-chat/observability"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestReplyClient_Success(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal(http.MethodPost, r.Method)
		req.Equal("application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		req.JSONEq(`{"message":"hello"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Hi there"}`))
	}))
	defer remote.Close()

	responder := mocks.NewMockResponder(ctrl)
	c := client.NewReplyClient(remote.URL, time.Second, responder, testLogger, observability.NewStats())

	reply := c.GetReply(context.Background(), "hello")
	req.Equal("Hi there", reply)

	// A successful call leaves no advisory behind
	_, ok := c.ConsumeAdvisory()
	req.False(ok)
}

func TestReplyClient_DegradesToFallback(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		close   bool
	}{
		{
			name: "Non-2xx status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			},
		},
		{
			name: "Unparseable body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			name:    "Transport failure",
			handler: func(_ http.ResponseWriter, _ *http.Request) {},
			close:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := httptest.NewServer(tt.handler)
			if tt.close {
				remote.Close()
			} else {
				defer remote.Close()
			}

			// A keyword input makes the fallback reply deterministic,
			// so the equality property can be checked directly.
			responder, err := fallback.NewResponder(
				fallback.DefaultRules(), fallback.DefaultGenericPool(), rand.New(rand.NewSource(1)))
			req.NoError(err)

			stats := observability.NewStats()
			c := client.NewReplyClient(remote.URL, time.Second, responder, testLogger, stats)

			input := "I'm feeling anxious today"
			reply := c.GetReply(context.Background(), input)
			req.Equal(responder.Respond(input), reply)
			req.Equal(uint64(1), stats.GetLatest().FallbacksUsed)
		})
	}
}

func TestReplyClient_AdvisoryIsOneShot(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"down"}`, http.StatusBadGateway)
	}))
	defer remote.Close()

	responder := mocks.NewMockResponder(ctrl)
	responder.EXPECT().Respond("hey").Return("fallback reply")

	c := client.NewReplyClient(remote.URL, time.Second, responder, testLogger, observability.NewStats())
	req.Equal("fallback reply", c.GetReply(context.Background(), "hey"))

	notice, ok := c.ConsumeAdvisory()
	req.True(ok)
	req.NotEmpty(notice)

	// Consumed once, the advisory is cleared
	_, ok = c.ConsumeAdvisory()
	req.False(ok)
}

func TestReplyClient_Timeout(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"response":"too late"}`))
	}))
	defer remote.Close()

	responder := mocks.NewMockResponder(ctrl)
	responder.EXPECT().Respond("slow").Return("fallback reply")

	// The defensive timeout classifies the hang as a transport failure
	c := client.NewReplyClient(remote.URL, 20*time.Millisecond, responder, testLogger, observability.NewStats())
	req.Equal("fallback reply", c.GetReply(context.Background(), "slow"))
}
