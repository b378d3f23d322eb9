package ai

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemInstructionCarriesResume(t *testing.T) {
	s := SystemInstruction()
	assert.True(t, strings.HasPrefix(s, "You are a highly sophisticated and witty AI assistant"))
	assert.Contains(t, s, `"name": "Parth Bhanti"`)
	assert.Contains(t, s, "VIT Bhopal University")
}

func TestChatGreeting(t *testing.T) {
	tests := []struct {
		name     string
		greeting string
		err      error
		want     string
	}{
		{name: "greeting shown", greeting: "Welcome to Parth Bhanti's portfolio.", want: "Welcome to Parth Bhanti's portfolio."},
		{name: "empty greeting", greeting: "", want: "Welcome."},
		{name: "connection failure", err: errors.New("dial tcp"), want: "Sorry, I am having trouble connecting right now."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{greeting: tt.greeting, greetingErr: tt.err}
			p := NewChatPanel(remote)

			err := p.Greet(context.Background())
			if tt.err != nil {
				var ge *GenerationError
				assert.ErrorAs(t, err, &ge)
			} else {
				assert.NoError(t, err)
			}

			view := p.View()
			require.Len(t, view.Messages, 1)
			assert.Equal(t, RoleModel, view.Messages[0].Role)
			assert.Equal(t, tt.want, view.Messages[0].Text)
			assert.False(t, view.Loading)
			assert.Equal(t, []string{GreetingPrompt}, remote.prompts)
		})
	}
}

func TestChatSendStreamsReply(t *testing.T) {
	remote := &fakeRemote{greeting: "Hi.", fragments: []string{"Parth ", "builds ", "things."}}
	var updates atomic.Int32
	p := NewChatPanel(remote, WithNotify(func() { updates.Add(1) }))
	require.NoError(t, p.Greet(context.Background()))

	require.NoError(t, p.Send(context.Background(), "What does he do?"))

	view := p.View()
	require.Len(t, view.Messages, 3)
	assert.Equal(t, RoleUser, view.Messages[1].Role)
	assert.Equal(t, "What does he do?", view.Messages[1].Text)
	assert.Equal(t, "Parth builds things.", view.Messages[2].Text)
	assert.False(t, view.Messages[2].Pending)
	assert.False(t, view.Loading)
	assert.Greater(t, updates.Load(), int32(3))

	require.Len(t, remote.requests, 1)
	req := remote.requests[0]
	assert.Equal(t, "What does he do?", req.Message)
	assert.Equal(t, []Message{
		{Role: RoleUser, Text: GreetingPrompt},
		{Role: RoleModel, Text: "Hi."},
	}, req.History)
	assert.NotEmpty(t, req.SystemInstruction)

	require.NoError(t, p.Send(context.Background(), "And then?"))
	assert.Len(t, remote.requests[1].History, 4)
}

func TestChatStreamFailure(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		wantTexts []string
	}{
		{name: "nothing streamed", wantTexts: []string{"hello", "Oops, something went wrong."}},
		{name: "partial reply kept", fragments: []string{"Par"}, wantTexts: []string{"hello", "Par", "Oops, something went wrong."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{fragments: tt.fragments, streamErr: errors.New("reset by peer")}
			p := NewChatPanel(remote)

			err := p.Send(context.Background(), "hello")
			assert.EqualError(t, err, "generation failed: reset by peer")

			var texts []string
			for _, m := range p.View().Messages {
				texts = append(texts, m.Text)
				assert.False(t, m.Pending)
			}
			assert.Equal(t, tt.wantTexts, texts)
			assert.False(t, p.View().Loading)
		})
	}
}

func TestChatSingleInFlight(t *testing.T) {
	remote := &fakeRemote{fragments: []string{"ok"}, gate: make(chan struct{})}
	p := NewChatPanel(remote)

	require.NoError(t, p.Post("first"))
	assert.ErrorIs(t, p.Post("second"), ErrBusy)
	assert.ErrorIs(t, p.Send(context.Background(), "third"), ErrBusy)
	assert.True(t, p.View().Loading)

	close(remote.gate)
	p.Wait()

	view := p.View()
	assert.False(t, view.Loading)
	require.Len(t, view.Messages, 2)
	assert.Equal(t, "ok", view.Messages[1].Text)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	p := NewChatPanel(&fakeRemote{})
	assert.ErrorIs(t, p.Send(context.Background(), "  "), ErrPromptRequired)
	assert.Empty(t, p.View().Messages)
}

func TestChatCloseDiscardsLateReply(t *testing.T) {
	remote := &fakeRemote{fragments: []string{"late"}, gate: make(chan struct{})}
	p := NewChatPanel(remote)

	require.NoError(t, p.Post("hello"))
	before := p.View()
	p.Close()

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("exchange did not stop after close")
	}

	assert.Equal(t, before, p.View())
	assert.ErrorIs(t, p.Send(context.Background(), "again"), ErrClosed)
}

func TestChatOpenGreetsInBackground(t *testing.T) {
	p := NewChatPanel(&fakeRemote{greeting: "Hello there."})
	p.Open()
	p.Wait()

	view := p.View()
	require.Len(t, view.Messages, 1)
	assert.Equal(t, "Hello there.", view.Messages[0].Text)
}
