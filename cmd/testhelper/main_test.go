package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRun_UnknownCommand(t *testing.T) {
	err := run([]string{"testhelper", "bogus"}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestRun_NoCommand(t *testing.T) {
	err := run([]string{"testhelper"}, strings.NewReader(""), &bytes.Buffer{})
	if err == nil {
		t.Error("expected usage error")
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	var envelopeOut bytes.Buffer
	in := `{"passphrase":"correct-horse","state":{"a":1}}`
	if err := cmdEncrypt(strings.NewReader(in), &envelopeOut); err != nil {
		t.Fatalf("cmdEncrypt() error = %v", err)
	}

	decryptIn := `{"passphrase":"correct-horse","envelope":` + strings.TrimSpace(envelopeOut.String()) + `}`
	var stateOut bytes.Buffer
	if err := cmdDecrypt(strings.NewReader(decryptIn), &stateOut); err != nil {
		t.Fatalf("cmdDecrypt() error = %v", err)
	}

	var resp struct {
		State json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(stateOut.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if string(resp.State) != `{"a":1}` {
		t.Errorf("state = %s, want {\"a\":1}", resp.State)
	}
}

func TestDecrypt_WrongPassphrase(t *testing.T) {
	var envelopeOut bytes.Buffer
	in := `{"passphrase":"correct-horse","state":{"a":1}}`
	if err := cmdEncrypt(strings.NewReader(in), &envelopeOut); err != nil {
		t.Fatalf("cmdEncrypt() error = %v", err)
	}

	decryptIn := `{"passphrase":"wrong-horse","envelope":` + strings.TrimSpace(envelopeOut.String()) + `}`
	if err := cmdDecrypt(strings.NewReader(decryptIn), &bytes.Buffer{}); err == nil {
		t.Error("cmdDecrypt() with wrong passphrase succeeded")
	}
}

func TestDeriveIdentity_Stable(t *testing.T) {
	ids := make([]string, 2)
	for i := range ids {
		var out bytes.Buffer
		if err := cmdDeriveIdentity(strings.NewReader(`{"passphrase":"correct-horse"}`), &out); err != nil {
			t.Fatalf("cmdDeriveIdentity() error = %v", err)
		}
		var resp struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
			t.Fatalf("parse response: %v", err)
		}
		ids[i] = resp.ID
	}

	if ids[0] != ids[1] {
		t.Errorf("identity not stable across invocations: %q != %q", ids[0], ids[1])
	}
}
