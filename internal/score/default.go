package score

import "sync"

var (
	defaultMu  sync.Mutex
	defaultOrc *Orchestrator
)

// Default returns the process-wide orchestrator, creating it on first use.
// Prefer constructing an Orchestrator with New and passing it explicitly.
func Default() *Orchestrator {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultOrc == nil {
		defaultOrc = New()
	}
	return defaultOrc
}

// ResetDefault replaces the process-wide orchestrator with a fresh,
// independent instance and returns it. Orchestrators obtained earlier keep
// working but no longer share state with Default.
func ResetDefault() *Orchestrator {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOrc = New()
	return defaultOrc
}
