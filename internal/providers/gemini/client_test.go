package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/infrastructure/config"
	"github.com/parthos/desktop/backend/internal/infrastructure/monitoring"
	"github.com/parthos/desktop/backend/internal/infrastructure/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		TextModel:  "text",
		ImageModel: "image",
		VideoModel: "video",
		Timeout:    5 * time.Second,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(testConfig(srv.URL), opts...)
	require.NoError(t, err)
	return client
}

func decodeBody(t *testing.T, r *http.Request) generateRequest {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var req generateRequest
	require.NoError(t, sonic.Unmarshal(data, &req))
	return req
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(config.AIConfig{BaseURL: "http://localhost"})
	assert.ErrorIs(t, err, ai.ErrUnavailable)
}

func TestGenerateText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/text:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		req := decodeBody(t, r)
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)
		require.NotNil(t, req.SystemInstruction)
		assert.Equal(t, "be brief", req.SystemInstruction.Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hi "},{"text":"there"}]}}]}`)
	})

	text, err := client.GenerateText(context.Background(), "hello", "be brief")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
}

func TestSearchWebCollectsSources(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeBody(t, r)
		require.Len(t, req.Tools, 1)
		assert.NotNil(t, req.Tools[0].GoogleSearch)
		assert.Nil(t, req.SystemInstruction)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"Go 1.24"}]},
			"groundingMetadata":{"groundingChunks":[
				{"web":{"uri":"https://go.dev/doc","title":"go.dev"}},
				{},
				{"web":{"uri":"https://example.com"}}]}}]}`)
	})

	answer, err := client.SearchWeb(context.Background(), "latest go")
	require.NoError(t, err)
	assert.Equal(t, "Go 1.24", answer.Text)
	assert.Equal(t, []ai.Source{
		{Title: "go.dev", URI: "https://go.dev/doc"},
		{URI: "https://example.com"},
	}, answer.Sources)
}

func TestStreamChat(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/text:streamGenerateContent", r.URL.Path)
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))

		req := decodeBody(t, r)
		require.Len(t, req.Contents, 3)
		assert.Equal(t, "user", req.Contents[0].Role)
		assert.Equal(t, "model", req.Contents[1].Role)
		assert.Equal(t, "what next?", req.Contents[2].Parts[0].Text)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, frag := range []string{"Hel", "", "lo"} {
			fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":%q}]}}]}\n\n", frag)
		}
	}
	chat := ai.ChatRequest{
		SystemInstruction: "persona",
		History: []ai.Message{
			{Role: ai.RoleUser, Text: "hi"},
			{Role: ai.RoleModel, Text: "hello"},
		},
		Message: "what next?",
	}

	t.Run("relays fragments in order", func(t *testing.T) {
		client := newTestClient(t, handler)
		var got []string
		err := client.StreamChat(context.Background(), chat, func(s string) error {
			got = append(got, s)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Hel", "lo"}, got)
	})

	t.Run("callback error stops the stream", func(t *testing.T) {
		client := newTestClient(t, handler)
		stop := errors.New("closed")
		calls := 0
		err := client.StreamChat(context.Background(), chat, func(string) error {
			calls++
			return stop
		})
		assert.Same(t, stop, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, resilience.StateClosed, client.BreakerState())
	})
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"api message", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, "API key not valid"},
		{"plain body", http.StatusForbidden, `nope`, "403 Forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := client.GenerateText(context.Background(), "hello", "")
			var ge *ai.GenerationError
			require.ErrorAs(t, err, &ge)
			assert.Equal(t, tt.status, ge.Status)
			assert.Equal(t, tt.detail, ge.Detail)
			assert.Equal(t, resilience.StateClosed, client.BreakerState())
		})
	}
}

func TestServerErrorsAreRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 2
	metrics := monitoring.NewMetrics()
	client, err := New(cfg, WithRetryWait(time.Millisecond, 5*time.Millisecond), WithMetrics(metrics))
	require.NoError(t, err)

	text, err := client.GenerateText(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for range 5 {
		_, err := client.GenerateText(context.Background(), "hello", "")
		require.Error(t, err)
	}
	assert.Equal(t, resilience.StateOpen, client.BreakerState())

	_, err := client.GenerateText(context.Background(), "hello", "")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestGenerateImage(t *testing.T) {
	t.Run("returns a jpeg data url", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/image:predict", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"aspectRatio":"1:1"`)
			assert.Contains(t, string(body), `"outputMimeType":"image/jpeg"`)
			fmt.Fprint(w, `{"predictions":[{"bytesBase64Encoded":"AAEC"}]}`)
		})

		url, err := client.GenerateImage(context.Background(), "a cat")
		require.NoError(t, err)
		assert.Equal(t, "data:image/jpeg;base64,AAEC", url)
	})

	t.Run("no predictions", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"predictions":[]}`)
		})

		_, err := client.GenerateImage(context.Background(), "a cat")
		assert.Equal(t, NoImageDetail, ai.Detail(err))
	})
}

func TestVideoLifecycle(t *testing.T) {
	var srvURL string
	var polls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/models/video:predictLongRunning":
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"aspectRatio":"9:16"`)
			assert.Contains(t, string(body), `"resolution":"720p"`)
			fmt.Fprint(w, `{"name":"models/video/operations/op1"}`)
		case r.URL.Path == "/models/video/operations/op1":
			if polls.Add(1) == 1 {
				fmt.Fprint(w, `{"name":"models/video/operations/op1","done":false}`)
				return
			}
			fmt.Fprintf(w, `{"name":"models/video/operations/op1","done":true,
				"response":{"generateVideoResponse":{"generatedSamples":[{"video":{"uri":"%s/files/clip?alt=media"}}]}}}`, srvURL)
		case r.URL.Path == "/files/clip":
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			assert.Equal(t, "media", r.URL.Query().Get("alt"))
			w.Header().Set("Content-Type", "video/mp4")
			w.Write([]byte{0, 1, 2})
		default:
			http.NotFound(w, r)
		}
	})
	srvURL = strings.TrimSuffix(client.cfg.BaseURL, "/")

	ctx := context.Background()
	op, err := client.StartVideo(ctx, "waves", ai.VideoParams{AspectRatio: "9:16"})
	require.NoError(t, err)
	assert.Equal(t, "models/video/operations/op1", op.Name)
	assert.False(t, op.Done)

	op, err = client.VideoStatus(ctx, op)
	require.NoError(t, err)
	assert.False(t, op.Done)

	op, err = client.VideoStatus(ctx, op)
	require.NoError(t, err)
	require.True(t, op.Done)
	assert.Equal(t, srvURL+"/files/clip?alt=media", op.VideoURI)

	url, err := client.FetchVideo(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, "data:video/mp4;base64,AAEC", url)
}

func TestVideoErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/files/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"name":"models/video/operations/op1","done":true,"error":{"code":3,"message":"prompt rejected"}}`)
	})
	ctx := context.Background()

	_, err := client.StartVideo(ctx, "waves", ai.VideoParams{Resolution: "4k"})
	assert.ErrorIs(t, err, ai.ErrInvalidParams)

	_, err = client.VideoStatus(ctx, ai.Operation{Name: "models/video/operations/op1"})
	assert.Equal(t, "prompt rejected", ai.Detail(err))

	_, err = client.FetchVideo(ctx, ai.Operation{Done: true})
	assert.ErrorIs(t, err, ai.ErrNoVideo)

	_, err = client.FetchVideo(ctx, ai.Operation{Done: true, VideoURI: client.cfg.BaseURL + "/files/missing?alt=media"})
	assert.Equal(t, "Failed to fetch video: Not Found", ai.Detail(err))
}
