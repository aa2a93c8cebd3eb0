package domain

import "strings"

// AudioPayload is a recorded clip as received from the client.
// The bytes are never interpreted, only forwarded.
type AudioPayload struct {
	Data     []byte
	MIMEType string
	Filename string
}

// Size returns the payload length in bytes.
func (p AudioPayload) Size() int {
	return len(p.Data)
}

// IsAudio reports whether the declared MIME type is an audio/* type.
func (p AudioPayload) IsAudio() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(p.MIMEType)), "audio/")
}
