// Command testhelper is a JSON-in/JSON-out driver used by the cross-SDK
// conformance harness. Each subcommand reads one request object from stdin
// and writes one response object to stdout, so envelopes produced by one
// SDK can be verified against another.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	statesync "github.com/statesync/client-go"
	"github.com/statesync/client-go/internal/envelope"
)

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "testhelper: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) < 2 {
		return errors.New("usage: testhelper <encrypt|decrypt|derive-identity|save|load>")
	}

	// Best-effort: a missing .env just means the environment is already set.
	godotenv.Load()

	switch args[1] {
	case "encrypt":
		return cmdEncrypt(stdin, stdout)
	case "decrypt":
		return cmdDecrypt(stdin, stdout)
	case "derive-identity":
		return cmdDeriveIdentity(stdin, stdout)
	case "save":
		return cmdSave(stdin, stdout)
	case "load":
		return cmdLoad(stdin, stdout)
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}
}

func cmdEncrypt(stdin io.Reader, stdout io.Writer) error {
	var req struct {
		Passphrase string          `json:"passphrase"`
		State      json.RawMessage `json:"state"`
	}
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	env, err := envelope.Encrypt(req.State, req.Passphrase)
	if err != nil {
		return err
	}
	return json.NewEncoder(stdout).Encode(env)
}

func cmdDecrypt(stdin io.Reader, stdout io.Writer) error {
	var req struct {
		Passphrase string             `json:"passphrase"`
		Envelope   *envelope.Envelope `json:"envelope"`
	}
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	state, err := envelope.Decrypt(req.Envelope, req.Passphrase)
	if err != nil {
		return err
	}
	return json.NewEncoder(stdout).Encode(map[string]json.RawMessage{"state": state})
}

func cmdDeriveIdentity(stdin io.Reader, stdout io.Writer) error {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	id, err := envelope.DeriveIdentity(req.Passphrase)
	if err != nil {
		return err
	}
	return json.NewEncoder(stdout).Encode(map[string]string{"id": id})
}

func newClient() (*statesync.Client, error) {
	baseURL := os.Getenv("STATESYNC_URL")
	if baseURL == "" {
		return nil, errors.New("STATESYNC_URL is not set")
	}
	return statesync.New(statesync.WithBaseURL(baseURL))
}

func cmdSave(stdin io.Reader, stdout io.Writer) error {
	var req struct {
		Passphrase string          `json:"passphrase"`
		State      json.RawMessage `json:"state"`
	}
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := client.Save(ctx, req.Passphrase, req.State); err != nil {
		return err
	}
	return json.NewEncoder(stdout).Encode(map[string]bool{"ok": true})
}

func cmdLoad(stdin io.Reader, stdout io.Writer) error {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	outcome := client.Load(ctx, req.Passphrase)
	return json.NewEncoder(stdout).Encode(map[string]any{
		"state": outcome.State,
		"error": outcome.Err.String(),
	})
}
