// Package statesync provides a Go client SDK for synchronizing
// passphrase-encrypted JSON state to a remote versioned blob store.
//
// State is sealed into an authenticated envelope (AES-256-GCM plus a
// standalone HMAC-SHA256, under keys derived from the passphrase) and
// stored remotely keyed by timestamp, with a mutable "latest" pointer
// naming the current head version. Loading follows the pointer and falls
// back to scanning recent versions when the pointer is missing, stale, or
// the head version cannot be decrypted.
//
// Basic usage:
//
//	client, err := statesync.New(statesync.WithBaseURL("https://store.example.com"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Debounced save; returns immediately.
//	client.ScheduleSave("correct-horse", map[string]any{"counter": 1})
//
//	// Recover state. Load never returns an error; inspect the outcome.
//	outcome := client.Load(ctx, "correct-horse")
//	switch outcome.Err {
//	case statesync.ErrorNone:
//	    if outcome.HasState() {
//	        fmt.Println("state:", string(outcome.State))
//	    }
//	case statesync.ErrorNetwork:
//	    fmt.Println("store unreachable")
//	case statesync.ErrorIntegrity:
//	    fmt.Println("stored state cannot be decrypted")
//	}
package statesync
