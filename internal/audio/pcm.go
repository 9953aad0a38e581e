// Package audio decodes synthesized speech payloads and owns the single
// playback slot. Decode failures are absorbed by falling back to platform
// speech; nothing in this package surfaces an error to the user.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// DecodeError reports a malformed PCM payload. Callers recover by falling
// back to platform speech synthesis.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string { return "decode pcm: " + e.Reason }

// DecodePCM16 reinterprets a base64 payload as 16-bit signed little-endian
// mono samples and normalizes each to [-1.0, 1.0] by dividing by 32768.
func DecodePCM16(b64 string) ([]float32, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("invalid base64: %v", err)}
	}
	if len(raw)%2 != 0 {
		return nil, &DecodeError{Reason: fmt.Sprintf("odd payload length %d", len(raw))}
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float32(v) / 32768.0
	}
	return samples, nil
}
