package qr

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pngMagic = "\x89PNG\r\n\x1a\n"

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		wantEdge int
	}{
		{"explicit size", 100, 100},
		{"zero size falls back to default", 0, DefaultSize},
		{"negative size falls back to default", -5, DefaultSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode("https://example.com/ABC-123", tt.size)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte(pngMagic)), "result must be a PNG")

			img, err := png.DecodeConfig(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantEdge, img.Width)
			assert.Equal(t, tt.wantEdge, img.Height)
		})
	}
}

func TestEncodeBase64(t *testing.T) {
	encoded, err := EncodeBase64("https://example.com/ABC-123", 0)
	require.NoError(t, err)

	data, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(pngMagic)))
}

func TestEncodeRejectsEmptyText(t *testing.T) {
	_, err := Encode("", 0)
	assert.Error(t, err)

	_, err = EncodeBase64("", 0)
	assert.Error(t, err)
}

func TestEncodeRejectsOversizedText(t *testing.T) {
	_, err := Encode(strings.Repeat("a", 4000), 0)
	assert.Error(t, err)
}
