package bench

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

// ImageSource is anything whose contents can be read back as an image.
// *gpu.Canvas implements it.
type ImageSource interface {
	ReadImage() (*image.RGBA, error)
}

// SaveScreenshot reads src back and writes it to path as a BMP file,
// creating the parent directory if needed.
func SaveScreenshot(src ImageSource, path string) error {
	img, err := src.ReadImage()
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("screenshot: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if err := bmp.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("screenshot: encode %s: %w", path, err)
	}
	return f.Close()
}
