package ai

import "context"

// Unavailable is the Collaborator used when no generation service is
// configured. Every call fails with ErrUnavailable.
type Unavailable struct{}

var _ Collaborator = Unavailable{}

func (Unavailable) StreamChat(context.Context, ChatRequest, func(string) error) error {
	return Fail("chat", ErrUnavailable)
}

func (Unavailable) GenerateText(context.Context, string, string) (string, error) {
	return "", Fail("text", ErrUnavailable)
}

func (Unavailable) SearchWeb(context.Context, string) (Answer, error) {
	return Answer{}, Fail("search", ErrUnavailable)
}

func (Unavailable) GenerateImage(context.Context, string) (string, error) {
	return "", Fail("image", ErrUnavailable)
}

func (Unavailable) StartVideo(context.Context, string, VideoParams) (Operation, error) {
	return Operation{}, Fail("video-start", ErrUnavailable)
}

func (Unavailable) VideoStatus(_ context.Context, op Operation) (Operation, error) {
	return op, Fail("video-status", ErrUnavailable)
}

func (Unavailable) FetchVideo(context.Context, Operation) (string, error) {
	return "", Fail("video-fetch", ErrUnavailable)
}
