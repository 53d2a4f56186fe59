package bench

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

type staticImage struct {
	img *image.RGBA
	err error
}

func (s staticImage) ReadImage() (*image.RGBA, error) { return s.img, s.err }

func TestSaveScreenshot(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	path := filepath.Join(t.TempDir(), "nested", "frame.bmp")
	if err := SaveScreenshot(staticImage{img: img}, path); err != nil {
		t.Fatalf("SaveScreenshot() failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open screenshot: %v", err)
	}
	defer f.Close()
	decoded, err := bmp.Decode(f)
	if err != nil {
		t.Fatalf("bmp.Decode() failed: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v, want 4x3", b)
	}
	r, g, b, _ := decoded.At(1, 2).RGBA()
	if r>>8 != 200 || g>>8 != 100 || b>>8 != 50 {
		t.Errorf("pixel (1, 2) = %d,%d,%d; want 200,100,50", r>>8, g>>8, b>>8)
	}
}

func TestSaveScreenshotReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.bmp")
	wantErr := errors.New("device lost")
	if err := SaveScreenshot(staticImage{err: wantErr}, path); !errors.Is(err, wantErr) {
		t.Errorf("SaveScreenshot() error = %v, want %v", err, wantErr)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file created despite read error")
	}
}
