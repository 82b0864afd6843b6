package vision

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_gateway.go -package=mocks cardsync/internal/vision Gateway

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/option"
	visionapi "google.golang.org/api/vision/v1"

	"cardsync/internal/service"
)

// Gateway defines the OCR operation used by the application.
type Gateway interface {
	// DetectText returns the full text recognized in the image, or an empty
	// string when the image contains no recognizable text.
	DetectText(ctx context.Context, image []byte) (string, error)
}

// Client is a Gateway backed by the Cloud Vision v1 API.
type Client struct {
	svc *visionapi.Service
}

// NewClient creates a Vision API client.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := visionapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vision service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// DetectText runs a single TEXT_DETECTION request and returns the first
// annotation's full-text description.
func (c *Client) DetectText(ctx context.Context, image []byte) (string, error) {
	req := &visionapi.BatchAnnotateImagesRequest{
		Requests: []*visionapi.AnnotateImageRequest{
			{
				Image: &visionapi.Image{
					Content: base64.StdEncoding.EncodeToString(image),
				},
				Features: []*visionapi.Feature{
					{Type: "TEXT_DETECTION"},
				},
			},
		},
	}

	res, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", service.WrapUpstream("vision.images.annotate", err)
	}
	if len(res.Responses) == 0 {
		return "", nil
	}

	annotation := res.Responses[0]
	if annotation.Error != nil {
		return "", service.WrapUpstream("vision.images.annotate",
			fmt.Errorf("annotation failed: %s", annotation.Error.Message))
	}
	if len(annotation.TextAnnotations) == 0 {
		return "", nil
	}
	return annotation.TextAnnotations[0].Description, nil
}
