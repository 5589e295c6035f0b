// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pdiddy/paperscreen/internal/container"
)

// DefaultPdftotextImage is a poppler image providing pdftotext.
const DefaultPdftotextImage = "minidocks/poppler:latest"

// ContainerConverter pipes PDFs through pdftotext running in a container.
// It handles layouts the native parser cannot decode.
type ContainerConverter struct {
	runtime container.Runtime
	image   string
	timeout time.Duration
}

// NewContainerConverter verifies that image exists in rt.
func NewContainerConverter(ctx context.Context, rt container.Runtime, image string, timeout time.Duration) (*ContainerConverter, error) {
	if image == "" {
		image = DefaultPdftotextImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	return &ContainerConverter{runtime: rt, image: image, timeout: timeout}, nil
}

// Convert implements Converter.
func (c *ContainerConverter) Convert(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, []string{"pdftotext", "-enc", "UTF-8", "-", "-"}, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with pdftotext: %w", path, err)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("pdftotext produced empty output for %s", path)
	}
	return out.String(), nil
}
