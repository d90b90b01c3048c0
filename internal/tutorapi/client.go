// Package tutorapi is the HTTP client for the answer-generation backend.
// The exchange is a single multipart request/response round trip; there
// is no streaming, retry, or cancellation beyond the request context.
package tutorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/mrgilbot/gilbot/internal/config"
	"github.com/mrgilbot/gilbot/internal/domain"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// AskRequest carries one submission. The wire protocol accepts at most
// one image; the caller decides which attachment that is.
type AskRequest struct {
	Question     string
	SessionID    string
	StudentName  string
	StudentEmail string
	Image        *Image
}

type Image struct {
	Name string
	Data []byte
}

// Ask posts the question and returns the raw `response` value from the
// body. Any transport, status, or envelope problem is an error; what the
// response value means is the resolver's business.
func (c *Client) Ask(ctx context.Context, askReq AskRequest) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"question":      askReq.Question,
		"session_id":    askReq.SessionID,
		"student_name":  askReq.StudentName,
		"student_email": askReq.StudentEmail,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if askReq.Image != nil {
		part, err := writer.CreateFormFile("image", askReq.Image.Name)
		if err != nil {
			return nil, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(askReq.Image.Data); err != nil {
			return nil, fmt.Errorf("write image: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/ask", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ask request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tutor api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(envelope.Response) == 0 {
		return nil, fmt.Errorf("response field missing")
	}

	return envelope.Response, nil
}

// AlternatesResponse carries the session-keyed alternates the backend
// remembers for the most recent topic.
type AlternatesResponse struct {
	VideoAlternates    []domain.VideoRef     `json:"video_alternates"`
	GeoGebraAlternates []domain.DiagramEntry `json:"geogebra_alternates"`
}

func (c *Client) Alternates(ctx context.Context, sessionID string) (*AlternatesResponse, error) {
	form := url.Values{"session_id": {sessionID}}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/alternates",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alternates request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tutor api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var alternates AlternatesResponse
	if err := json.Unmarshal(body, &alternates); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &alternates, nil
}
