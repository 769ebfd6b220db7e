package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dariafung/fotex/internal/llm"
)

type mockRT struct {
	roundTrip func(req *http.Request) (*http.Response, error)
}

func (m *mockRT) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.roundTrip(req)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func mockClient(fn func(req *http.Request) (*http.Response, error)) *Client {
	return NewClientWithHTTP("http://ollama.test", &http.Client{Transport: &mockRT{roundTrip: fn}})
}

func TestChatSendsNonStreamingRequest(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"gemma3:12b","message":{"role":"assistant","content":"x^2"},"done":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", 5*time.Second)
	reply, err := client.Chat(context.Background(), "gemma3:12b", []llm.Message{
		llm.System("sys"),
		llm.User("x squared"),
	})
	require.NoError(t, err)
	assert.Equal(t, "x^2", reply)

	assert.Equal(t, "gemma3:12b", got["model"])
	assert.Equal(t, false, got["stream"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "sys", first["content"])
}

func TestChatForwardsRequestProfile(t *testing.T) {
	var got struct {
		Options map[string]any `json:"options"`
	}
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&got))
		return response(http.StatusOK, `{"message":{"role":"assistant","content":"ok"}}`), nil
	})
	temp := 0.1
	ctx := llm.WithRequestProfile(context.Background(), llm.RequestProfile{Temperature: &temp, NumCtx: 4096})
	_, err := client.Chat(ctx, "m", []llm.Message{llm.User("hi")})
	require.NoError(t, err)
	assert.Equal(t, 0.1, got.Options["temperature"])
	assert.Equal(t, float64(4096), got.Options["num_ctx"])
}

func TestChatReturnsRawContent(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		return response(http.StatusOK, `{"message":{"role":"assistant","content":"<think>hm</think>`+"```latex\\\\alpha```"+`"}}`), nil
	})
	reply, err := client.Chat(context.Background(), "m", nil)
	require.NoError(t, err)
	assert.Equal(t, "<think>hm</think>```latex\\alpha```", reply)
}

func TestChatUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Chat(context.Background(), "m", nil)
	require.ErrorIs(t, err, llm.ErrUnreachable)
}

func TestChatStatusError(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		return response(http.StatusNotFound, `{"error":"model \"nope\" not found, try pulling it first"}`), nil
	})
	_, err := client.Chat(context.Background(), "nope", nil)
	var statusErr *llm.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, `model "nope" not found, try pulling it first`, statusErr.Body)
}

func TestChatProtocolErrors(t *testing.T) {
	for name, body := range map[string]string{
		"not json":        "<html>",
		"missing message": `{"done":true}`,
		"null message":    `{"message":null}`,
		"missing content": `{"message":{"role":"assistant"},"done":true}`,
		"null content":    `{"message":{"role":"assistant","content":null}}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := mockClient(func(req *http.Request) (*http.Response, error) {
				return response(http.StatusOK, body), nil
			})
			_, err := client.Chat(context.Background(), "m", nil)
			require.ErrorIs(t, err, llm.ErrProtocol)
		})
	}
}

func TestChatCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		cancel()
		return nil, req.Context().Err()
	})
	_, err := client.Chat(ctx, "m", nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, llm.ErrUnreachable))
}

func TestChatEgressBlocked(t *testing.T) {
	client := NewClient("http://127.0.0.1:11434", time.Second)
	client.baseURL = "http://example.com"
	_, err := client.Chat(context.Background(), "m", nil)
	require.ErrorIs(t, err, llm.ErrEgressBlocked)
}

func TestListModels(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/api/tags", req.URL.Path)
		return response(http.StatusOK, `{"models":[{"name":"qwen2.5:7b"},{"name":"gemma3:12b"}]}`), nil
	})
	names, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"qwen2.5:7b", "gemma3:12b"}, names)
}

func TestListModelsEmptyAndMissing(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		return response(http.StatusOK, `{"models":[]}`), nil
	})
	names, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)

	client = mockClient(func(req *http.Request) (*http.Response, error) {
		return response(http.StatusOK, `{}`), nil
	})
	_, err = client.ListModels(context.Background())
	require.ErrorIs(t, err, llm.ErrProtocol)

	client = mockClient(func(req *http.Request) (*http.Response, error) {
		return response(http.StatusOK, `{"models":[{"name":"a:1"},{"model":"x"}]}`), nil
	})
	names, err = client.ListModels(context.Background())
	require.ErrorIs(t, err, llm.ErrProtocol)
	assert.Nil(t, names)
}

func TestChatEmptyContentIsValid(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		return response(http.StatusOK, `{"message":{"role":"assistant","content":""}}`), nil
	})
	reply, err := client.Chat(context.Background(), "m", nil)
	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestListModelsServerError(t *testing.T) {
	client := mockClient(func(req *http.Request) (*http.Response, error) {
		return response(http.StatusInternalServerError, "boom"), nil
	})
	_, err := client.ListModels(context.Background())
	var statusErr *llm.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 500, statusErr.StatusCode)
	assert.Equal(t, "boom", statusErr.Body)
}
