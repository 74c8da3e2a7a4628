package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)

	if s.Config.EndpointAddr == "" {
		s.T().Skip("ENDPOINT_ADDR not set, skipping endpoint scenarios")
	}
	s.client = &http.Client{Timeout: 60 * time.Second}
}

// PostChat posts one chat request with logging, colors, and JSON debugging
func (s *BaseHTTPSuite) PostChat(name string, body any) (*http.Response, []byte) {
	// 1. Print a colorized header for the request step in logs
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	reqBytes, err := json.Marshal(body)
	s.Require().NoError(err)

	url := s.Config.EndpointAddr + "/functions/v1/serenity-ai"
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err, "Failed to reach the endpoint at "+url)
	defer resp.Body.Close()

	respBytes := s.readAll(resp)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "POST %s [%d] in %v", url, resp.StatusCode, time.Since(start))

	// Log full JSON request/response bodies if E2E_DEBUG_JSON is enabled
	if s.Config.DebugJSON {
		fmt.Fprintln(&logBuilder, "\nREQUEST:")
		fmt.Fprintln(&logBuilder, string(reqBytes))
		fmt.Fprintln(&logBuilder, "RESPONSE:")
		fmt.Fprintln(&logBuilder, string(respBytes))
	}
	s.T().Log(logBuilder.String())

	return resp, respBytes
}

func (s *BaseHTTPSuite) readAll(resp *http.Response) []byte {
	buf := &bytes.Buffer{}
	_, err := buf.ReadFrom(resp.Body)
	s.Require().NoError(err)
	return buf.Bytes()
}
