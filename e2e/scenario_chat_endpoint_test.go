package e2e

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type testChatEndpointSuite struct {
	BaseHTTPSuite
}

func TestChatEndpointSuite(t *testing.T) {
	suite.Run(t, &testChatEndpointSuite{})
}

func (s *testChatEndpointSuite) TestChatEndpointContract() {
	// --- STEP 1: NOMINAL REPLY ---
	s.Run("Step 1: A valid message receives a reply", func() {
		resp, body := s.PostChat("Posting a wellbeing message", map[string]any{
			"message": "I have been feeling a bit overwhelmed lately",
		})
		s.Require().Equal(http.StatusOK, resp.StatusCode)

		var parsed struct {
			Response string `json:"response"`
		}
		s.Require().NoError(json.Unmarshal(body, &parsed))
		s.Require().NotEmpty(parsed.Response, "Endpoint returned an empty reply")
	})

	// --- STEP 2: INVALID PAYLOAD ---
	s.Run("Step 2: A malformed message is rejected with 400", func() {
		resp, body := s.PostChat("Posting a non-string message", map[string]any{
			"message": 42,
		})
		s.Require().Equal(http.StatusBadRequest, resp.StatusCode)

		var parsed struct {
			Error string `json:"error"`
		}
		s.Require().NoError(json.Unmarshal(body, &parsed))
		s.Require().Contains(parsed.Error, "Invalid message format")
	})

	// --- STEP 3: CORS PREFLIGHT ---
	s.Run("Step 3: Preflight advertises open CORS", func() {
		req, err := http.NewRequest(http.MethodOptions,
			s.Config.EndpointAddr+"/functions/v1/serenity-ai", nil)
		s.Require().NoError(err)

		resp, err := s.client.Do(req)
		s.Require().NoError(err)
		defer resp.Body.Close()

		s.Require().Equal(http.StatusNoContent, resp.StatusCode)
		s.Require().Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
