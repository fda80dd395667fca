package audio

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wavHeader() []byte {
	b := make([]byte, 44)
	copy(b[0:4], "RIFF")
	copy(b[8:12], "WAVE")
	copy(b[12:16], "fmt ")
	return b
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		declared string
		want     string
		wantErr  error
	}{
		{name: "declared audio with params", data: []byte{1, 2, 3}, declared: "audio/webm;codecs=opus", want: "audio/webm"},
		{name: "sniffed wav", data: wavHeader(), want: "audio/wav"},
		{name: "octet stream falls back to sniffing", data: wavHeader(), declared: "application/octet-stream", want: "audio/wav"},
		{name: "empty", data: nil, declared: "audio/webm", wantErr: ErrEmpty},
		{name: "declared non-audio is kept", data: []byte{1, 2, 3}, declared: "video/mp4", want: "video/mp4"},
		{name: "sniffed text", data: []byte("hello there"), want: "text/plain"},
		{name: "unknown bytes", data: []byte{0x00, 0x01, 0x02, 0x03}, declared: "application/octet-stream", want: "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectType(tt.data, tt.declared)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDataURI(t *testing.T) {
	data := []byte{0x1a, 0x45, 0xdf, 0xa3}
	uri, err := EncodeDataURI(data, "audio/webm")
	require.NoError(t, err)

	prefix := "data:audio/webm;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}
