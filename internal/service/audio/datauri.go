package audio

import (
	"encoding/base64"
	"errors"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const octetStream = "application/octet-stream"

var ErrEmpty = errors.New("audio payload is empty")

// DetectType returns the payload's media type without parameters. A declared
// type is used as is unless it is missing, malformed or the generic
// application/octet-stream; then the bytes are sniffed. Payloads that are not
// audio are stored under whatever type they declare or sniff as.
func DetectType(data []byte, declared string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}

	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != octetStream {
			return mediaType, nil
		}
	}

	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "audio/") {
			return m.String(), nil
		}
	}
	// browsers record webm/ogg containers, which sniff as video
	if detected.Is("video/webm") || detected.Is("application/ogg") {
		return "audio/" + strings.TrimPrefix(strings.TrimPrefix(detected.String(), "video/"), "application/"), nil
	}
	mediaType, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return octetStream, nil
	}
	return mediaType, nil
}

// EncodeDataURI stores the recording inline as a base64 data URI, so it can
// be played back without a separate object store.
func EncodeDataURI(data []byte, declared string) (string, error) {
	mediaType, err := DetectType(data, declared)
	if err != nil {
		return "", err
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
