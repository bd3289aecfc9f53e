package envelope

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestBytes_MarshalUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		data Bytes
	}{
		{"binary", Bytes{0x00, 0xff, 0x7f, 0x80}},
		{"text", Bytes("hello world")},
		{"needs url-safe chars", Bytes{0xfb, 0xff, 0xfe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := json.Marshal(tt.data)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if bytes.ContainsAny(encoded, "+/=") {
				t.Errorf("encoding %s is not unpadded base64url", encoded)
			}

			var decoded Bytes
			if err := json.Unmarshal(encoded, &decoded); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !bytes.Equal(decoded, tt.data) {
				t.Errorf("round trip = %v, want %v", decoded, tt.data)
			}
		})
	}
}

func TestBytes_UnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a string", "123"},
		{"padded base64", `"aGVsbG8="`},
		{"invalid chars", `"a+b/c"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Bytes
			if err := json.Unmarshal([]byte(tt.input), &b); err == nil {
				t.Errorf("Unmarshal(%s) succeeded, want error", tt.input)
			}
		})
	}
}

func TestBytes_UnmarshalNull(t *testing.T) {
	var b Bytes
	if err := json.Unmarshal([]byte("null"), &b); err != nil {
		t.Fatalf("Unmarshal(null) error = %v", err)
	}
	if b != nil {
		t.Errorf("Unmarshal(null) = %v, want nil", b)
	}
}
