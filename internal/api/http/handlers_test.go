package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/domain/desktop"
	"github.com/parthos/desktop/backend/internal/domain/shell"
	"github.com/parthos/desktop/backend/internal/infrastructure/monitoring"
	"github.com/parthos/desktop/backend/internal/shared/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scripted is a Collaborator with canned answers.
type scripted struct {
	mu sync.Mutex

	fragments []string
	text      string
	image     string
	op        ai.Operation
	status    ai.Operation
	video     string
	err       error

	requests []ai.ChatRequest
}

func (s *scripted) StreamChat(_ context.Context, req ai.ChatRequest, onFragment func(string) error) error {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, f := range s.fragments {
		if err := onFragment(f); err != nil {
			return err
		}
	}
	return nil
}

func (s *scripted) GenerateText(context.Context, string, string) (string, error) {
	return s.text, s.err
}

func (s *scripted) SearchWeb(context.Context, string) (ai.Answer, error) {
	return ai.Answer{Text: s.text}, s.err
}

func (s *scripted) GenerateImage(context.Context, string) (string, error) {
	return s.image, s.err
}

func (s *scripted) StartVideo(context.Context, string, ai.VideoParams) (ai.Operation, error) {
	return s.op, s.err
}

func (s *scripted) VideoStatus(context.Context, ai.Operation) (ai.Operation, error) {
	return s.status, s.err
}

func (s *scripted) FetchVideo(context.Context, ai.Operation) (string, error) {
	return s.video, s.err
}

type testEnv struct {
	router  *gin.Engine
	desktop *desktop.Desktop
}

func newEnv(t *testing.T, remote ai.Collaborator) *testEnv {
	t.Helper()
	metrics := monitoring.NewMetrics()
	d := desktop.New(nil, remote,
		desktop.WithMetrics(metrics),
		desktop.WithCloseDelay(0),
		desktop.WithoutJitter(types.Position{X: 100, Y: 80}),
	)
	t.Cleanup(d.Close)

	r := gin.New()
	NewHandlers(d, metrics, zap.NewNop()).Register(r)
	return &testEnv{router: r, desktop: d}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *testEnv) open(t *testing.T, appID string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/apps/"+appID+"/open", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Success bool                 `json:"success"`
		Window  types.WindowInstance `json:"window"`
	}](t, w)
	require.True(t, body.Success)
	return body.Window.ID
}

func TestHealth(t *testing.T) {
	env := newEnv(t, ai.Unavailable{})

	w := env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]any{"configured": false}, body["ai"])
	assert.EqualValues(t, 18, body["apps"])
}

func TestOpenApp(t *testing.T) {
	env := newEnv(t, &scripted{})

	first := env.open(t, "calculator")
	second := env.open(t, "calculator")
	assert.Equal(t, first, second, "a visible window is focused, not duplicated")

	w := env.do(http.MethodPost, "/apps/nope/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["success"])

	w = env.do(http.MethodPost, "/apps/bad%20id/open", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWindowOperations(t *testing.T) {
	env := newEnv(t, &scripted{})
	a := env.open(t, "about")
	b := env.open(t, "projects")

	w := env.do(http.MethodPost, "/windows/"+b+"/minimize", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, a, env.desktop.Windows().ActiveID())

	w = env.do(http.MethodPost, "/windows/"+b+"/focus", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, b, env.desktop.Windows().ActiveID())

	w = env.do(http.MethodPut, "/windows/"+a+"/position", `{"x":-40,"y":900}`)
	require.Equal(t, http.StatusOK, w.Code)
	win, _ := env.desktop.Windows().Get(a)
	assert.Equal(t, types.Position{X: -40, Y: 900}, win.Position)

	w = env.do(http.MethodDelete, "/windows/"+a, "")
	require.Equal(t, http.StatusOK, w.Code)
	_, exists := env.desktop.Windows().Get(a)
	assert.False(t, exists)

	w = env.do(http.MethodDelete, "/windows/"+a, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["success"])

	w = env.do(http.MethodPost, "/start-menu/toggle", "")
	assert.Equal(t, true, decode[map[string]any](t, w)["open"])
}

func TestDesktopViews(t *testing.T) {
	env := newEnv(t, &scripted{})
	id := env.open(t, "terminal")

	w := env.do(http.MethodGet, "/desktop", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[desktop.View](t, w)
	assert.Len(t, view.Icons, 16)
	require.Len(t, view.Stack, 1)
	assert.Equal(t, id, view.Stack[0].ID)

	w = env.do(http.MethodGet, "/desktop/snapshot", "")
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[struct {
		State    types.DesktopState         `json:"state"`
		Contents map[string]json.RawMessage `json:"contents"`
	}](t, w)
	assert.Equal(t, id, snap.State.ActiveWindowID)
	assert.Contains(t, snap.Contents, id)
}

func TestTerminalEndpoints(t *testing.T) {
	env := newEnv(t, &scripted{})
	id := env.open(t, "terminal")
	base := "/windows/" + id + "/terminal"

	w := env.do(http.MethodPost, base+"/submit", `{"input":"mkdir notes"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodPost, base+"/submit", `{"input":"ls"}`)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[shell.View](t, w)
	last := view.Lines[len(view.Lines)-1]
	assert.Equal(t, shell.LineOutput, last.Kind)
	assert.Contains(t, last.Content, "notes/")

	w = env.do(http.MethodPost, base+"/history/up", "")
	assert.Equal(t, "ls", decode[map[string]any](t, w)["input"])
	w = env.do(http.MethodPost, base+"/history/up", "")
	assert.Equal(t, "mkdir notes", decode[map[string]any](t, w)["input"])
	w = env.do(http.MethodPost, base+"/history/down", "")
	assert.Equal(t, "ls", decode[map[string]any](t, w)["input"])
}

func TestTerminalEditor(t *testing.T) {
	env := newEnv(t, &scripted{})
	id := env.open(t, "terminal")
	base := "/windows/" + id + "/terminal"

	w := env.do(http.MethodPost, base+"/editor/exit", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, base+"/submit", `{"input":"nano todo.txt"}`)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[shell.View](t, w)
	require.NotNil(t, view.Editor)
	assert.Equal(t, "todo.txt", view.Editor.Path)

	w = env.do(http.MethodPost, base+"/submit", `{"input":"ls"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, base+"/editor/save", `{"content":"buy milk"}`)
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[shell.View](t, w)
	assert.Equal(t, "[ Saved todo.txt ]", view.Editor.Status)

	w = env.do(http.MethodPost, base+"/editor/exit", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPost, base+"/submit", `{"input":"cat todo.txt"}`)
	view = decode[shell.View](t, w)
	assert.Equal(t, "buy milk", view.Lines[len(view.Lines)-1].Content)
}

func TestTerminalErrors(t *testing.T) {
	env := newEnv(t, &scripted{})
	calc := env.open(t, "calculator")

	w := env.do(http.MethodGet, "/windows/"+calc+"/terminal", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/windows/win_missing/terminal", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := env.open(t, "terminal")
	long := strings.Repeat("x", 2000)
	w = env.do(http.MethodPost, "/windows/"+id+"/terminal/submit", `{"input":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateText(t *testing.T) {
	tests := []struct {
		name   string
		remote ai.Collaborator
		body   string
		code   int
		want   map[string]any
	}{
		{
			name:   "ok",
			remote: &scripted{text: "hello"},
			body:   `{"prompt":"hi"}`,
			code:   http.StatusOK,
			want:   map[string]any{"text": "hello"},
		},
		{
			name:   "missing prompt",
			remote: &scripted{},
			body:   `{"prompt":"  "}`,
			code:   http.StatusBadRequest,
			want:   map[string]any{"error": "Prompt is required"},
		},
		{
			name:   "upstream failure",
			remote: &scripted{err: &ai.GenerationError{Op: "text", Detail: "quota exceeded", Status: 429}},
			body:   `{"prompt":"hi"}`,
			code:   http.StatusBadGateway,
			want:   map[string]any{"error": "Failed to generate response from AI", "details": "quota exceeded"},
		},
		{
			name:   "not configured",
			remote: ai.Unavailable{},
			body:   `{"prompt":"hi"}`,
			code:   http.StatusServiceUnavailable,
			want:   map[string]any{"error": "Failed to generate response from AI", "details": ai.ErrUnavailable.Error()},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, tt.remote)
			w := env.do(http.MethodPost, "/ai/generate-text", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.want, decode[map[string]any](t, w))
		})
	}
}

func TestChatStream(t *testing.T) {
	remote := &scripted{fragments: []string{"Welcome ", "to the ", "portfolio."}}
	env := newEnv(t, remote)

	w := env.do(http.MethodPost, "/ai/chat",
		`{"history":[{"sender":"user","text":"hi"},{"sender":"bot","text":"hello"}],"message":"projects?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to the portfolio.", w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))

	require.Len(t, remote.requests, 1)
	req := remote.requests[0]
	assert.Equal(t, []ai.Message{{Role: ai.RoleUser, Text: "hi"}, {Role: ai.RoleModel, Text: "hello"}}, req.History)
	assert.Equal(t, "projects?", req.Message)
	assert.NotEmpty(t, req.SystemInstruction)
}

func TestChatFailureBeforeFirstFragment(t *testing.T) {
	env := newEnv(t, &scripted{err: ai.Fail("chat", errors.New("boom"))})

	w := env.do(http.MethodPost, "/ai/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Failed to process chat message", decode[map[string]any](t, w)["error"])
}

func TestGenerateImage(t *testing.T) {
	env := newEnv(t, &scripted{image: "data:image/jpeg;base64,AA=="})

	w := env.do(http.MethodPost, "/ai/generate-image", `{"prompt":"a fox"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "data:image/jpeg;base64,AA==", decode[map[string]any](t, w)["imageUrl"])
}

func TestVideoEndpoints(t *testing.T) {
	remote := &scripted{op: ai.Operation{Name: "models/v/operations/1"}}
	env := newEnv(t, remote)

	w := env.do(http.MethodPost, "/ai/generate-video", `{"prompt":"waves","aspectRatio":"9:16"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	started := decode[struct {
		Operation ai.Operation `json:"operation"`
	}](t, w)
	assert.Equal(t, "models/v/operations/1", started.Operation.Name)

	w = env.do(http.MethodPost, "/ai/video-status", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Operation data is required", decode[map[string]any](t, w)["error"])

	remote.status = ai.Operation{Name: "models/v/operations/1"}
	w = env.do(http.MethodPost, "/ai/video-status", `{"operation":{"name":"models/v/operations/1"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["done"])

	remote.status = ai.Operation{Name: "models/v/operations/1", Done: true}
	w = env.do(http.MethodPost, "/ai/video-status", `{"operation":{"name":"models/v/operations/1"}}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Video URI not found in completed operation.", decode[map[string]any](t, w)["details"])

	remote.status.VideoURI = "https://media/clip?alt=media"
	remote.video = "data:video/mp4;base64,AAEC"
	w = env.do(http.MethodPost, "/ai/video-status", `{"operation":{"name":"models/v/operations/1"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"done": true, "videoUrl": "data:video/mp4;base64,AAEC"}, decode[map[string]any](t, w))
}

func TestPanelEndpoints(t *testing.T) {
	env := newEnv(t, &scripted{text: "Hello.", image: "data:image/jpeg;base64,AA=="})

	img := env.open(t, "image-generator")
	w := env.do(http.MethodPost, "/windows/"+img+"/image", `{"prompt":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/windows/"+img+"/image", `{"prompt":"a fox"}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	panel, err := env.desktop.Image(img)
	require.NoError(t, err)
	panel.Wait()
	assert.Equal(t, "data:image/jpeg;base64,AA==", panel.View().ImageURL)

	w = env.do(http.MethodGet, "/windows/"+img+"/content", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "data:image/jpeg;base64,AA==", decode[map[string]any](t, w)["imageUrl"])

	w = env.do(http.MethodPost, "/windows/"+img+"/chat/messages", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	vid := env.open(t, "video-generator")
	w = env.do(http.MethodPost, "/windows/"+vid+"/video", `{"prompt":"waves","resolution":"4k"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamLogs(t *testing.T) {
	env := newEnv(t, &scripted{})

	w := env.do(http.MethodPost, "/logs", `{"source":"ui","entries":[{"id":"1","level":"warn","message":"drag lost","context":{"x":3}}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["entries_received"])

	w = env.do(http.MethodPost, "/logs", `{"source":"other","entries":[{"id":"1"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/logs", `{"source":"ui","entries":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsJSON(t *testing.T) {
	env := newEnv(t, &scripted{})
	env.open(t, "about")

	w := env.do(http.MethodGet, "/metrics/json", "")
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[MetricsReport](t, w)
	assert.EqualValues(t, 1, report.Backend.OpenWindows)
}
