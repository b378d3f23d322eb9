package ai

import (
	"context"
	"sync"
)

// fakeRemote is a scripted Collaborator.
type fakeRemote struct {
	mu sync.Mutex

	fragments []string
	streamErr error
	// gate, when set, blocks StreamChat and GenerateImage until closed or ctx ends.
	gate chan struct{}

	greeting    string
	greetingErr error

	answer    Answer
	searchErr error

	image    string
	imageErr error

	op        Operation
	startErr  error
	doneAfter int
	statusErr error
	video     string
	fetchErr  error

	requests []ChatRequest
	prompts  []string
	polls    int
}

func (f *fakeRemote) wait(ctx context.Context) error {
	if f.gate == nil {
		return nil
	}
	select {
	case <-f.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeRemote) StreamChat(ctx context.Context, req ChatRequest, onFragment func(string) error) error {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return err
	}
	for _, frag := range f.fragments {
		if err := onFragment(frag); err != nil {
			return err
		}
	}
	return f.streamErr
}

func (f *fakeRemote) GenerateText(_ context.Context, prompt, _ string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.greeting, f.greetingErr
}

func (f *fakeRemote) SearchWeb(_ context.Context, prompt string) (Answer, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.answer, f.searchErr
}

func (f *fakeRemote) GenerateImage(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	return f.image, f.imageErr
}

func (f *fakeRemote) StartVideo(_ context.Context, prompt string, _ VideoParams) (Operation, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.op, f.startErr
}

func (f *fakeRemote) VideoStatus(_ context.Context, op Operation) (Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return op, f.statusErr
	}
	f.polls++
	if f.polls >= f.doneAfter {
		op.Done = true
		if f.video != "" {
			op.VideoURI = "https://media.example/video?alt=media"
		}
	}
	return op, nil
}

func (f *fakeRemote) FetchVideo(context.Context, Operation) (string, error) {
	return f.video, f.fetchErr
}

func (f *fakeRemote) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

var _ Collaborator = (*fakeRemote)(nil)
