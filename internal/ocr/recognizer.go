// Package ocr turns receipt photos into raw recognized text.
package ocr

import (
	"context"
	"errors"
	"strings"
)

var ErrNoText = errors.New("no text recognized")

// Recognizer defines the interface for text recognition
type Recognizer interface {
	// Recognize returns the text of the image, one recognized line per line
	Recognize(ctx context.Context, image []byte, mimeType string) (string, error)
	Close() error
}

// imageFormat returns the format suffix expected by vision models ("jpeg", "png")
func imageFormat(mimeType string) string {
	format := strings.TrimPrefix(strings.ToLower(mimeType), "image/")
	switch format {
	case "jpg", "":
		return "jpeg"
	default:
		return format
	}
}

// cleanTranscript removes markdown fences that models sometimes wrap output in
func cleanTranscript(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
