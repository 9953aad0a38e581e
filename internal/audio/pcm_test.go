package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func encodeSamples(values []int16) string {
	raw := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(v))
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestDecodePCM16_SampleCountAndRange(t *testing.T) {
	values := []int16{0, 1, -1, 16384, -16384, 32767, -32768}
	samples, err := DecodePCM16(encodeSamples(values))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != len(values) {
		t.Fatalf("got %d samples, want %d", len(samples), len(values))
	}
	for i, s := range samples {
		if s < -1.0 || s > 1.0 {
			t.Errorf("sample %d = %v out of [-1, 1]", i, s)
		}
		want := float32(values[i]) / 32768.0
		if math.Abs(float64(s-want)) > 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, s, want)
		}
	}
}

func TestDecodePCM16_AllZeroPayload(t *testing.T) {
	const n = 128
	samples, err := DecodePCM16(base64.StdEncoding.EncodeToString(make([]byte, 2*n)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != n {
		t.Fatalf("got %d samples, want %d", len(samples), n)
	}
	for i, s := range samples {
		if s != 0 {
			t.Fatalf("sample %d = %v, want 0", i, s)
		}
	}
}

func TestDecodePCM16_OddLengthFails(t *testing.T) {
	_, err := DecodePCM16(base64.StdEncoding.EncodeToString([]byte{1, 2, 3}))
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error %v, want *DecodeError", err)
	}
}

func TestDecodePCM16_InvalidBase64Fails(t *testing.T) {
	_, err := DecodePCM16("not base64!!!")
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error %v, want *DecodeError", err)
	}
}

func TestDecodePCM16_EmptyPayload(t *testing.T) {
	samples, err := DecodePCM16("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("got %d samples, want 0", len(samples))
	}
}
