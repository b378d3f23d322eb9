package gemini

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/parthos/desktop/backend/internal/domain/ai"
)

const maxStreamLine = 1 << 20

// stopError carries an error returned by the fragment callback so it is not
// counted against the remote side.
type stopError struct{ err error }

func (e *stopError) Error() string { return e.err.Error() }
func (e *stopError) Unwrap() error { return e.err }

func userContent(text string) content {
	return content{Role: string(ai.RoleUser), Parts: []part{{Text: text}}}
}

func systemContent(text string) *content {
	if text == "" {
		return nil
	}
	return &content{Parts: []part{{Text: text}}}
}

func chatBody(req ai.ChatRequest) generateRequest {
	contents := make([]content, 0, len(req.History)+1)
	for _, m := range req.History {
		contents = append(contents, content{Role: string(m.Role), Parts: []part{{Text: m.Text}}})
	}
	contents = append(contents, userContent(req.Message))
	return generateRequest{Contents: contents, SystemInstruction: systemContent(req.SystemInstruction)}
}

// StreamChat sends the conversation and relays reply fragments as they
// arrive over server-sent events.
func (c *Client) StreamChat(ctx context.Context, req ai.ChatRequest, onFragment func(string) error) error {
	_, err := call(ctx, c, "chat", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.stream(ctx, chatBody(req), onFragment)
	})
	var stop *stopError
	if errors.As(err, &stop) {
		return stop.err
	}
	return err
}

func (c *Client) stream(ctx context.Context, body generateRequest, onFragment func(string) error) error {
	resp, err := c.request(ctx).
		SetDoNotParseResponse(true).
		SetQueryParam("alt", "sse").
		SetBody(body).
		Post(modelPath(c.cfg.TextModel, "streamGenerateContent"))
	if err != nil {
		return err
	}
	raw := resp.RawBody()
	defer raw.Close()

	if resp.IsError() {
		data, _ := io.ReadAll(io.LimitReader(raw, 64<<10))
		return statusError("chat", resp.StatusCode(), resp.Status(), data)
	}

	scanner := bufio.NewScanner(raw)
	scanner.Buffer(make([]byte, 0, 64<<10), maxStreamLine)
	for scanner.Scan() {
		payload, ok := strings.CutPrefix(scanner.Text(), "data:")
		if !ok {
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "" || payload == "[DONE]" {
			continue
		}
		var chunk generateResponse
		if err := sonic.UnmarshalString(payload, &chunk); err != nil {
			return fmt.Errorf("decode stream chunk: %w", err)
		}
		if text := chunk.text(); text != "" {
			if err := onFragment(text); err != nil {
				return &stopError{err}
			}
		}
	}
	return scanner.Err()
}

// GenerateText returns one complete reply to prompt.
func (c *Client) GenerateText(ctx context.Context, prompt, systemInstruction string) (string, error) {
	return call(ctx, c, "text", func(ctx context.Context) (string, error) {
		var out generateResponse
		resp, err := c.request(ctx).
			SetBody(generateRequest{
				Contents:          []content{userContent(prompt)},
				SystemInstruction: systemContent(systemInstruction),
			}).
			SetResult(&out).
			Post(modelPath(c.cfg.TextModel, "generateContent"))
		if err := check("text", resp, err); err != nil {
			return "", err
		}
		return out.text(), nil
	})
}

// SearchWeb answers prompt with search grounding and returns the cited
// pages alongside the text.
func (c *Client) SearchWeb(ctx context.Context, prompt string) (ai.Answer, error) {
	return call(ctx, c, "search", func(ctx context.Context) (ai.Answer, error) {
		var out generateResponse
		resp, err := c.request(ctx).
			SetBody(generateRequest{
				Contents: []content{userContent(prompt)},
				Tools:    []tool{{GoogleSearch: &struct{}{}}},
			}).
			SetResult(&out).
			Post(modelPath(c.cfg.TextModel, "generateContent"))
		if err := check("search", resp, err); err != nil {
			return ai.Answer{}, err
		}

		answer := ai.Answer{Text: out.text()}
		if len(out.Candidates) > 0 && out.Candidates[0].GroundingMetadata != nil {
			for _, chunk := range out.Candidates[0].GroundingMetadata.GroundingChunks {
				if chunk.Web == nil || chunk.Web.URI == "" {
					continue
				}
				answer.Sources = append(answer.Sources, ai.Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
			}
		}
		return answer, nil
	})
}
