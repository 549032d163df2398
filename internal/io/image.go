package ioutils

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for wallpapers.
//
// ImageService is used to:
//   - Convert the downloaded JPEG to BMP (older Windows releases only accept BMP)
//   - Scale images down to a maximum width
//
// Example usage:
//
//	svc := NewImageService()
//	err := svc.ConvertToBMP(ctx, "wallpaper.jpg", "wallpaper.bmp", 0)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ConvertToBMP decodes src and writes it to dst as a BMP file.
//
// When maxWidth is positive and the image is wider, it is scaled down first
// with the aspect ratio preserved.
func (s *ImageService) ConvertToBMP(ctx context.Context, src, dst string, maxWidth int) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}

	if maxWidth > 0 {
		img = s.ResizeToWidth(ctx, img, maxWidth)
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := bmp.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	return out.Close()
}

// ResizeToWidth scales img so it is at most maxWidth pixels wide.
//
// The aspect ratio is preserved. Images already within the limit are
// returned unchanged. The Catmull-Rom algorithm is used for quality.
//
// Example:
//
//	// A 3840x2160 image becomes 1920x1080
//	resized := svc.ResizeToWidth(ctx, img, 1920)
func (s *ImageService) ResizeToWidth(ctx context.Context, img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxWidth || width == 0 {
		return img
	}

	newHeight := int(float64(height) * float64(maxWidth) / float64(width))
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
