package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaptureWriter_OversizedBodyIsNotCacheable(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, limit: 10}

	body := `{"items":[{"id":1}]}` // 20 bytes, over the 10-byte limit
	n, err := cw.Write([]byte(body))
	assert.NoError(t, err)
	assert.Equal(t, len(body), n)

	// The client still receives the full body; only the capture is cut.
	assert.Equal(t, body, rec.Body.String())
	assert.Equal(t, body[:10], cw.buf.String())
	assert.True(t, cw.truncated(), "cut-short capture must be excluded from the store")
}

func TestCaptureWriter_WithinLimitIsCacheable(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, limit: 64}

	body := `{"count":3}`
	_, err := cw.Write([]byte(body))
	assert.NoError(t, err)

	assert.Equal(t, body, cw.buf.String())
	assert.False(t, cw.truncated())
}

func TestCaptureWriter_OverflowAfterExactFill(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, limit: 5}

	_, _ = cw.Write([]byte("12345"))
	_, _ = cw.Write([]byte("678"))

	assert.Equal(t, "12345678", rec.Body.String())
	assert.Equal(t, "12345", cw.buf.String())
	assert.True(t, cw.truncated())
}

func TestCaptureWriter_NoLimitCapturesEverything(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec}

	_, _ = cw.Write([]byte(`{"a":1}`))
	_, _ = cw.Write([]byte(`{"b":2}`))

	assert.Equal(t, `{"a":1}{"b":2}`, cw.buf.String())
	assert.False(t, cw.truncated())
}
