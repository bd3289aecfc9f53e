package statesync

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/statesync/client-go/internal/api"
	"github.com/statesync/client-go/internal/envelope"
)

// Client synchronizes passphrase-encrypted JSON state with a remote
// versioned blob store. It debounces repeated save requests per bucket
// identity and recovers state with a pointer lookup plus a bounded
// fallback scan over recent versions.
type Client struct {
	apiClient     *api.Client
	debounceDelay time.Duration
	listLimit     int
	saveTimeout   time.Duration
	onSaveError   func(error)

	// pending maps bucket identity to its armed debounce timer. The map
	// is owned by this client instance; set/cancel on one identity's
	// entry is atomic under mu, so two timers never coexist for one
	// identity.
	pending map[string]*pendingSave
	mu      sync.Mutex
	closed  bool
}

// pendingSave is one armed debounce entry. A later ScheduleSave for the
// same identity replaces the whole entry, so the captured payload is
// last-write-wins.
type pendingSave struct {
	timer      *time.Timer
	passphrase string
	state      any
}

// New creates a new sync client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		debounceDelay: DefaultDebounceDelay,
		listLimit:     DefaultListLimit,
		saveTimeout:   DefaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	var apiOpts []api.Option
	if cfg.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(cfg.httpClient))
	}
	if cfg.retries > 0 {
		retry := api.DefaultRetryConfig()
		retry.MaxRetries = cfg.retries
		apiOpts = append(apiOpts, api.WithRetryConfig(retry))
	}
	if cfg.tokenSource != nil {
		apiOpts = append(apiOpts, api.WithTokenFunc(cfg.tokenSource.Token))
	}

	apiClient, err := api.New(cfg.baseURL, apiOpts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiClient:     apiClient,
		debounceDelay: cfg.debounceDelay,
		listLimit:     cfg.listLimit,
		saveTimeout:   cfg.saveTimeout,
		onSaveError:   cfg.onSaveError,
		pending:       make(map[string]*pendingSave),
	}, nil
}

// checkClosed returns ErrClientClosed if the client has been closed.
func (c *Client) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// ScheduleSave arms a debounced save of state under the passphrase's bucket
// identity and returns immediately. A second call for the same identity
// within the debounce window cancels the earlier timer and replaces the
// pending payload with the new one. A call while an earlier save is already
// on the network is not serialized against it; both saves proceed.
func (c *Client) ScheduleSave(passphrase string, state any) error {
	id, err := envelope.DeriveIdentity(passphrase)
	if err != nil {
		return wrapError(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}

	if prev := c.pending[id]; prev != nil {
		prev.timer.Stop()
	}

	p := &pendingSave{passphrase: passphrase, state: state}
	p.timer = time.AfterFunc(c.debounceDelay, func() {
		c.firePending(id, p)
	})
	c.pending[id] = p

	return nil
}

// firePending runs a debounced save once its timer fires. The entry is
// removed from the registry only after the save completes, and only if it
// has not been replaced by a newer ScheduleSave in the meantime.
func (c *Client) firePending(id string, p *pendingSave) {
	c.mu.Lock()
	if c.closed || c.pending[id] != p {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), c.saveTimeout)
	err := c.Save(ctx, p.passphrase, p.state)
	cancel()

	c.mu.Lock()
	if c.pending[id] == p {
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if err != nil && c.onSaveError != nil {
		c.onSaveError(err)
	}
}

// Save encrypts state and writes it to the store immediately: first the
// version record keyed by the envelope timestamp, then the latest pointer.
// The two PUTs are not atomic; if the pointer update fails after the
// version write, the version remains recoverable through Load's fallback
// scan, which does not depend on the pointer.
func (c *Client) Save(ctx context.Context, passphrase string, state any) error {
	if err := c.checkClosed(); err != nil {
		return err
	}

	env, err := envelope.Encrypt(state, passphrase)
	if err != nil {
		return wrapError(err)
	}

	id, err := envelope.DeriveIdentity(passphrase)
	if err != nil {
		return wrapError(err)
	}

	if err := c.apiClient.PutVersion(ctx, id, env); err != nil {
		return wrapError(err)
	}
	if err := c.apiClient.PutLatest(ctx, id, env.TS); err != nil {
		return wrapError(err)
	}

	return nil
}

// Flush runs any still-pending debounced saves immediately and
// synchronously. Saves whose timers have already fired are left to finish
// on their own goroutines.
func (c *Client) Flush(ctx context.Context) error {
	c.mu.Lock()
	var drained []*pendingSave
	for id, p := range c.pending {
		if p.timer.Stop() {
			drained = append(drained, p)
			delete(c.pending, id)
		}
	}
	c.mu.Unlock()

	var errs []error
	for _, p := range drained {
		if err := c.Save(ctx, p.passphrase, p.state); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load recovers the most recent decryptable state for the passphrase's
// bucket. It never returns a Go error; every failure collapses into the
// outcome's ErrorClass. An absent-but-healthy bucket yields ErrorNone with
// no state.
func (c *Client) Load(ctx context.Context, passphrase string) Outcome {
	if err := c.checkClosed(); err != nil {
		return Outcome{Err: ErrorNetwork}
	}

	id, err := envelope.DeriveIdentity(passphrase)
	if err != nil {
		// Keys cannot be derived, so nothing stored could ever be
		// decrypted under this passphrase.
		return Outcome{Err: ErrorIntegrity}
	}

	ptr, err := c.apiClient.GetLatest(ctx, id)
	switch {
	case err == nil:
		if outcome, done := c.loadVersion(ctx, id, ptr.TS, passphrase); done {
			return outcome
		}
		// Pointer is stale, dangling, or names an undecryptable version.
	case api.IsNotFound(err):
		// No pointer yet; the fallback scan may still find versions.
	default:
		return Outcome{Err: ErrorNetwork}
	}

	return c.loadFallback(ctx, id, passphrase)
}

// loadVersion fetches and decrypts one version. done is false when the
// caller should continue to the fallback scan (missing version or a
// decryption failure), true when the outcome is final.
func (c *Client) loadVersion(ctx context.Context, id string, ts int64, passphrase string) (Outcome, bool) {
	env, err := c.apiClient.GetVersion(ctx, id, ts)
	if err != nil {
		if api.IsNotFound(err) {
			return Outcome{}, false
		}
		return Outcome{Err: ErrorNetwork}, true
	}

	state, err := envelope.Decrypt(env, passphrase)
	if err != nil {
		// Integrity or format failure on this version is not a network
		// failure; older versions may still decrypt.
		return Outcome{}, false
	}
	return Outcome{State: state}, true
}

// loadFallback scans recent versions, most recent first, and returns the
// first one that decrypts.
func (c *Client) loadFallback(ctx context.Context, id, passphrase string) Outcome {
	refs, err := c.apiClient.ListVersions(ctx, id, c.listLimit)
	if err != nil {
		return Outcome{Err: ErrorNetwork}
	}
	if len(refs) == 0 {
		// Fresh bucket: no error, no state.
		return Outcome{Err: ErrorNone}
	}

	sort.Slice(refs, func(i, j int) bool {
		return refs[i].TS > refs[j].TS
	})

	sawDecryptFailure := false
	for _, ref := range refs {
		env, err := c.apiClient.GetVersion(ctx, id, ref.TS)
		if err != nil {
			if api.IsNotFound(err) {
				continue
			}
			return Outcome{Err: ErrorNetwork}
		}

		state, err := envelope.Decrypt(env, passphrase)
		if err != nil {
			sawDecryptFailure = true
			continue
		}
		return Outcome{State: state}
	}

	if sawDecryptFailure {
		return Outcome{Err: ErrorIntegrity}
	}
	// Every listed version was already gone from the store; treat the
	// bucket as empty.
	return Outcome{Err: ErrorNone}
}

// Close cancels all pending debounced saves and marks the client closed.
// A save whose network sequence has already begun is not cancelled; process
// teardown during such a save may drop it.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	for id, p := range c.pending {
		p.timer.Stop()
		delete(c.pending, id)
	}

	return nil
}
