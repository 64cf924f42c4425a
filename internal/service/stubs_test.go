package service

import "context"

// stubRecognizer returns a fixed transcript for any image
type stubRecognizer struct {
	text string
	err  error
}

func (s *stubRecognizer) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	return s.text, s.err
}

func (s *stubRecognizer) Close() error {
	return nil
}
