package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// ScreenshotCapture writes frames as timestamped PNG files.
type ScreenshotCapture struct {
	Dir    string
	Prefix string

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewScreenshotCapture creates a screenshot writer for dir.
func NewScreenshotCapture(dir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{Dir: dir, Prefix: prefix, Now: time.Now}
}

// Filename returns the path the next capture will be written to.
func (sc *ScreenshotCapture) Filename() string {
	now := time.Now
	if sc.Now != nil {
		now = sc.Now
	}
	name := fmt.Sprintf("%s_%s.png", sc.Prefix, now().Format("2006-01-02_15-04-05.000"))
	return filepath.Join(sc.Dir, name)
}

// CaptureFromPixels saves bottom-up RGBA rows, as read back from OpenGL,
// flipping them so the image is upright.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := range height {
		src := (height - 1 - y) * rowSize
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[src:src+rowSize])
	}
	return sc.CaptureFromImage(img)
}

// CaptureFromImage saves img and returns the file path.
func (sc *ScreenshotCapture) CaptureFromImage(img image.Image) (string, error) {
	if sc.Dir != "" {
		if err := os.MkdirAll(sc.Dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
