// Package testutil provides shared test doubles and fixtures for folio tests.
package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"folio/internal/notifications"
)

// NotifierStub records messages and optionally fails every send.
type NotifierStub struct {
	mu   sync.Mutex
	Sent []notifications.Message
	Err  error
}

// Notify records msg, returning a DeliveryError when Err is set.
func (n *NotifierStub) Notify(_ context.Context, msg notifications.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return &notifications.DeliveryError{To: msg.To, Err: n.Err}
	}
	n.Sent = append(n.Sent, msg)
	return nil
}

// Messages returns a copy of the recorded messages.
func (n *NotifierStub) Messages() []notifications.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notifications.Message(nil), n.Sent...)
}

// TinyPNG returns an encoded PNG of the given size.
func TinyPNG(t testing.TB, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: uint8(y % 255), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// PaddedPNG returns a valid PNG followed by zero bytes up to size.
func PaddedPNG(t testing.TB, size int) []byte {
	t.Helper()
	content := TinyPNG(t, 4, 4)
	if len(content) >= size {
		return content
	}
	return append(content, make([]byte, size-len(content))...)
}
