// Package attest obtains optional attestation tokens for store requests.
//
// Attestation is best-effort: the sync client attaches a token to requests
// when one is available and proceeds without one when the provider is
// unreachable or verification fails. A SignedTokenSource verifies the
// provider's ML-DSA-65 signature against a pinned key before releasing a
// token, so a compromised provider endpoint cannot inject arbitrary tokens.
package attest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// tokenContext is the domain-separation prefix for token signatures.
const tokenContext = "statesync:attest:v1"

var (
	// ErrProviderKeyMismatch is returned when the provider's advertised
	// public key differs from the pinned key.
	ErrProviderKeyMismatch = errors.New("attestation provider key mismatch")

	// ErrVerificationFailed is returned when the token signature does not
	// verify under the pinned key.
	ErrVerificationFailed = errors.New("attestation token verification failed")
)

// TokenSource supplies attestation tokens. Implementations return an error
// when no token can be obtained; callers treat that as "no token", never as
// a fatal condition.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token implements TokenSource.
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static returns a TokenSource that always yields the same token.
func Static(token string) TokenSource {
	return TokenSourceFunc(func(ctx context.Context) (string, error) {
		return token, nil
	})
}

// providerResponse is the wire form returned by an attestation provider.
type providerResponse struct {
	Token      string `json:"token"`
	Sig        string `json:"sig"`
	ProviderPK string `json:"provider_pk"`
}

// SignedTokenSource fetches tokens from an HTTP provider and verifies the
// provider's ML-DSA-65 signature before releasing them.
type SignedTokenSource struct {
	providerURL string
	pinnedKey   []byte
	httpClient  *http.Client
}

// SignedOption configures a SignedTokenSource.
type SignedOption func(*SignedTokenSource)

// WithHTTPClient sets a custom HTTP client for provider requests.
func WithHTTPClient(httpClient *http.Client) SignedOption {
	return func(s *SignedTokenSource) {
		s.httpClient = httpClient
	}
}

// NewSigned creates a SignedTokenSource with a pinned provider public key.
func NewSigned(providerURL string, pinnedKey []byte, opts ...SignedOption) (*SignedTokenSource, error) {
	if providerURL == "" {
		return nil, errors.New("provider URL is required")
	}
	if len(pinnedKey) != mldsa65.PublicKeySize {
		return nil, fmt.Errorf("pinned key size = %d, want %d", len(pinnedKey), mldsa65.PublicKeySize)
	}

	s := &SignedTokenSource{
		providerURL: providerURL,
		pinnedKey:   pinnedKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Token fetches a token from the provider and verifies its signature.
func (s *SignedTokenSource) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.providerURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("attestation provider returned status %d", resp.StatusCode)
	}

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode provider response: %w", err)
	}

	providerPK, err := base64.RawURLEncoding.DecodeString(body.ProviderPK)
	if err != nil {
		return "", fmt.Errorf("decode provider_pk: %w", err)
	}
	sig, err := base64.RawURLEncoding.DecodeString(body.Sig)
	if err != nil {
		return "", fmt.Errorf("decode sig: %w", err)
	}

	if !bytes.Equal(providerPK, s.pinnedKey) {
		return "", ErrProviderKeyMismatch
	}

	if err := verifyToken(s.pinnedKey, body.Token, sig); err != nil {
		return "", err
	}

	return body.Token, nil
}

// verifyToken checks an ML-DSA-65 signature over the token transcript.
func verifyToken(publicKey []byte, token string, sig []byte) error {
	var pk mldsa65.PublicKey
	if err := pk.UnmarshalBinary(publicKey); err != nil {
		return fmt.Errorf("unmarshal provider key: %w", err)
	}

	if !mldsa65.Verify(&pk, tokenTranscript(token), nil, sig) {
		return ErrVerificationFailed
	}
	return nil
}

// tokenTranscript builds the signed message: context string then token bytes.
func tokenTranscript(token string) []byte {
	transcript := make([]byte, 0, len(tokenContext)+len(token))
	transcript = append(transcript, tokenContext...)
	transcript = append(transcript, token...)
	return transcript
}
