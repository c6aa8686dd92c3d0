// Package ocr extracts question text from images with Google Cloud Vision.
package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/vision/v1"
)

// ErrNoText is returned when Vision finds no text in the image.
var ErrNoText = errors.New("no text detected in image")

// Client detects text in images.
type Client interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// VisionClient is a Client backed by the Vision images:annotate API.
type VisionClient struct {
	svc *vision.Service
}

func NewVisionClient(ctx context.Context, opts ...option.ClientOption) (*VisionClient, error) {
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}
	return &VisionClient{svc: svc}, nil
}

// NewVisionClientFromFile authenticates with a service account key file.
// Other credential types in the file are rejected.
func NewVisionClientFromFile(ctx context.Context, credentialsPath string) (*VisionClient, error) {
	return NewVisionClient(ctx, serviceAccountFile(credentialsPath))
}

func serviceAccountFile(path string) option.ClientOption {
	return option.WithAuthCredentialsFile(option.ServiceAccount, path)
}

func (c *VisionClient) DetectText(ctx context.Context, image []byte) (string, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
				Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
			},
		},
	}

	resp, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("annotate image: %w", err)
	}
	if len(resp.Responses) == 0 {
		return "", ErrNoText
	}

	r := resp.Responses[0]
	if r.Error != nil && r.Error.Code != 0 {
		return "", fmt.Errorf("annotate image: code %d: %s", r.Error.Code, r.Error.Message)
	}
	if r.FullTextAnnotation != nil && r.FullTextAnnotation.Text != "" {
		return r.FullTextAnnotation.Text, nil
	}
	// The first text annotation holds the whole detected block.
	if len(r.TextAnnotations) > 0 && r.TextAnnotations[0].Description != "" {
		return r.TextAnnotations[0].Description, nil
	}
	return "", ErrNoText
}
