package ai

import (
	"context"
	"fmt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation as sent to the collaborator.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is a conversational exchange: prior turns plus the new message.
type ChatRequest struct {
	SystemInstruction string    `json:"systemInstruction,omitempty"`
	History           []Message `json:"history"`
	Message           string    `json:"message"`
}

// Source is one web citation returned with a grounded answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Answer is a single-shot text response with optional citations.
type Answer struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources,omitempty"`
}

// VideoParams are the media generation knobs the video panel exposes.
type VideoParams struct {
	AspectRatio string `json:"aspectRatio"`
	Resolution  string `json:"resolution"`
}

// Normalize fills defaults and rejects unsupported values.
func (p VideoParams) Normalize() (VideoParams, error) {
	switch p.AspectRatio {
	case "":
		p.AspectRatio = "16:9"
	case "16:9", "9:16":
	default:
		return p, fmt.Errorf("%w: aspect ratio %q", ErrInvalidParams, p.AspectRatio)
	}
	switch p.Resolution {
	case "":
		p.Resolution = "720p"
	case "720p", "1080p":
	default:
		return p, fmt.Errorf("%w: resolution %q", ErrInvalidParams, p.Resolution)
	}
	return p, nil
}

// Operation is the handle of a long-running video generation.
type Operation struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	VideoURI string `json:"videoUri,omitempty"`
}

// Chatter streams a conversational reply. onFragment is called in arrival
// order; returning an error from it stops the stream with that error.
type Chatter interface {
	StreamChat(ctx context.Context, req ChatRequest, onFragment func(string) error) error
}

// TextGenerator returns one complete response.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt, systemInstruction string) (string, error)
}

// WebSearcher answers with web grounding and cited sources.
type WebSearcher interface {
	SearchWeb(ctx context.Context, prompt string) (Answer, error)
}

// ImageGenerator returns an embeddable data URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// VideoGenerator starts a long-running generation, reports its progress and
// downloads the finished media as a data URL.
type VideoGenerator interface {
	StartVideo(ctx context.Context, prompt string, params VideoParams) (Operation, error)
	VideoStatus(ctx context.Context, op Operation) (Operation, error)
	FetchVideo(ctx context.Context, op Operation) (string, error)
}

// Collaborator is the full remote generation service.
type Collaborator interface {
	Chatter
	TextGenerator
	WebSearcher
	ImageGenerator
	VideoGenerator
}
