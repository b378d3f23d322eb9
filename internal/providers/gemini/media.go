package gemini

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/parthos/desktop/backend/internal/domain/ai"
)

const (
	imageAspectRatio = "1:1"
	imageMimeType    = "image/jpeg"
)

// NoImageDetail is reported when generation succeeds without output.
const NoImageDetail = "Image generation failed. No images were returned."

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// GenerateImage renders one square JPEG and returns it as a data URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return call(ctx, c, "image", func(ctx context.Context) (string, error) {
		var out predictResponse
		resp, err := c.request(ctx).
			SetBody(predictRequest{
				Instances: []instance{{Prompt: prompt}},
				Parameters: imageParameters{
					SampleCount:    1,
					AspectRatio:    imageAspectRatio,
					OutputMimeType: imageMimeType,
				},
			}).
			SetResult(&out).
			Post(modelPath(c.cfg.ImageModel, "predict"))
		if err := check("image", resp, err); err != nil {
			return "", err
		}

		if len(out.Predictions) == 0 || out.Predictions[0].BytesBase64Encoded == "" {
			return "", &ai.GenerationError{Op: "image", Detail: NoImageDetail}
		}
		mime := out.Predictions[0].MimeType
		if mime == "" {
			mime = imageMimeType
		}
		return "data:" + mime + ";base64," + out.Predictions[0].BytesBase64Encoded, nil
	})
}

// StartVideo submits a long-running video generation.
func (c *Client) StartVideo(ctx context.Context, prompt string, params ai.VideoParams) (ai.Operation, error) {
	params, err := params.Normalize()
	if err != nil {
		return ai.Operation{}, ai.Fail("video-start", err)
	}
	return call(ctx, c, "video-start", func(ctx context.Context) (ai.Operation, error) {
		var out operation
		resp, err := c.request(ctx).
			SetBody(predictRequest{
				Instances: []instance{{Prompt: prompt}},
				Parameters: videoParameters{
					AspectRatio: params.AspectRatio,
					Resolution:  params.Resolution,
				},
			}).
			SetResult(&out).
			Post(modelPath(c.cfg.VideoModel, "predictLongRunning"))
		if err := check("video-start", resp, err); err != nil {
			return ai.Operation{}, err
		}
		return ai.Operation{Name: out.Name, Done: out.Done, VideoURI: out.videoURI()}, nil
	})
}

// VideoStatus refreshes op. A finished operation carries the video URI.
func (c *Client) VideoStatus(ctx context.Context, op ai.Operation) (ai.Operation, error) {
	if op.Name == "" {
		return op, ai.Fail("video-status", ai.ErrInvalidParams)
	}
	return call(ctx, c, "video-status", func(ctx context.Context) (ai.Operation, error) {
		var out operation
		resp, err := c.request(ctx).
			SetResult(&out).
			Get("/" + strings.TrimPrefix(op.Name, "/"))
		if err := check("video-status", resp, err); err != nil {
			return op, err
		}
		if out.Error != nil {
			return op, &ai.GenerationError{Op: "video-status", Detail: out.Error.Message, Status: out.Error.Code}
		}
		return ai.Operation{Name: op.Name, Done: out.Done, VideoURI: out.videoURI()}, nil
	})
}

// FetchVideo downloads the finished media and returns it as a data URL.
func (c *Client) FetchVideo(ctx context.Context, op ai.Operation) (string, error) {
	if op.VideoURI == "" {
		return "", ai.Fail("video-fetch", ai.ErrNoVideo)
	}
	target, err := url.Parse(op.VideoURI)
	if err != nil {
		return "", ai.Fail("video-fetch", err)
	}
	q := target.Query()
	q.Set("key", c.cfg.APIKey)
	target.RawQuery = q.Encode()

	return call(ctx, c, "video-fetch", func(ctx context.Context) (string, error) {
		resp, err := c.request(ctx).Get(target.String())
		if err != nil {
			return "", err
		}
		if resp.IsError() {
			return "", &ai.GenerationError{
				Op:     "video-fetch",
				Detail: "Failed to fetch video: " + http.StatusText(resp.StatusCode()),
				Status: resp.StatusCode(),
			}
		}

		body := resp.Body()
		mime, _, _ := strings.Cut(resp.Header().Get("Content-Type"), ";")
		if !strings.HasPrefix(mime, "video/") {
			mime = mimetype.Detect(body).String()
		}
		return dataURL(mime, body), nil
	})
}
