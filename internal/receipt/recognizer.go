package receipt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// TextRecognizer turns a stored receipt image into raw text. Real OCR is an
// external concern; the extractor only ever sees the resulting string.
type TextRecognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// CommandRecognizer shells out to an OCR binary (tesseract by default) and
// reads the recognized text from stdout.
type CommandRecognizer struct {
	Binary string
}

// NewCommandRecognizer creates a CommandRecognizer for the given binary.
func NewCommandRecognizer(binary string) *CommandRecognizer {
	if binary == "" {
		binary = "tesseract"
	}
	return &CommandRecognizer{Binary: binary}
}

// Recognize runs the OCR binary against the image and returns its output.
func (r *CommandRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Binary, imagePath, "stdout")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ocr command failed: %w", err)
	}
	return out.String(), nil
}

// StaticRecognizer returns a fixed text for every image. Used in tests and
// in development environments without an OCR binary installed.
type StaticRecognizer struct {
	Text string
	Err  error
}

// Recognize returns the configured text or error.
func (r *StaticRecognizer) Recognize(_ context.Context, _ string) (string, error) {
	return r.Text, r.Err
}
