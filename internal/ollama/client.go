// Package ollama talks to an Ollama server's chat and tags endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/dariafung/fotex/internal/egress"
	"github.com/dariafung/fotex/internal/llm"
)

const (
	chatPath          = "/api/chat"
	tagsPath          = "/api/tags"
	maxErrorBodyBytes = 2048
	maxBodyBytes      = 32 << 20
)

type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient only allows traffic to the host of baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: egress.ForBaseURL(http.DefaultTransport, baseURL),
		},
	}
}

func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"), client: hc}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// chatReply and tagsReply mirror the api types with pointer fields so a
// missing field is told apart from an empty one.
type chatReply struct {
	Message *struct {
		Role    string  `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
}

type tagsReply struct {
	Models []struct {
		Name *string `json:"name"`
	} `json:"models"`
}

// Chat sends a non-streaming chat request and returns the reply content as is.
func (c *Client) Chat(ctx context.Context, model string, messages []llm.Message) (string, error) {
	stream := false
	req := api.ChatRequest{
		Model:    model,
		Messages: toAPIMessages(messages),
		Stream:   &stream,
	}
	if profile, ok := llm.RequestProfileFromContext(ctx); ok {
		req.Options = profile.Options()
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	data, err := c.do(ctx, http.MethodPost, chatPath, body)
	if err != nil {
		return "", err
	}
	var reply chatReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return "", fmt.Errorf("%w: decode chat reply: %v", llm.ErrProtocol, err)
	}
	if reply.Message == nil {
		return "", fmt.Errorf("%w: chat reply has no message", llm.ErrProtocol)
	}
	if reply.Message.Content == nil {
		return "", fmt.Errorf("%w: chat reply message has no content", llm.ErrProtocol)
	}
	return *reply.Message.Content, nil
}

// ListModels returns the installed model names in server order.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	data, err := c.do(ctx, http.MethodGet, tagsPath, nil)
	if err != nil {
		return nil, err
	}
	var list tagsReply
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: decode tags: %v", llm.ErrProtocol, err)
	}
	if list.Models == nil {
		return nil, fmt.Errorf("%w: tags reply has no models", llm.ErrProtocol)
	}
	names := make([]string, 0, len(list.Models))
	for i, model := range list.Models {
		if model.Name == nil {
			return nil, fmt.Errorf("%w: tags entry %d has no name", llm.ErrProtocol, i)
		}
		names = append(names, *model.Name)
	}
	return names, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrUnreachable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &llm.StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       errorBody(raw),
		}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, transportError(ctx, err)
	}
	return data, nil
}

func transportError(ctx context.Context, err error) error {
	if errors.Is(err, llm.ErrEgressBlocked) {
		return llm.ErrEgressBlocked
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", llm.ErrUnreachable, err)
}

// errorBody prefers Ollama's {"error": "..."} message over the raw body.
func errorBody(raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

func toAPIMessages(messages []llm.Message) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, api.Message{Role: msg.Role, Content: msg.Content})
	}
	return out
}
