package core

import (
	"sync"
)

var (
	defaultMu     sync.RWMutex
	defaultEngine *Engine
)

// Configure installs a process-wide engine bound to conn.
func Configure(conn Connection, opts ...Option) error {
	if conn == nil {
		return &Error{Kind: KindNoConnection, Message: "default engine needs a connection"}
	}
	e := NewEngine(conn, opts...)
	defaultMu.Lock()
	defaultEngine = e
	defaultMu.Unlock()
	return nil
}

// Default returns the engine installed by Configure.
func Default() (*Engine, error) {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultEngine == nil {
		return nil, &Error{Kind: KindNoConnection, Message: "no default engine configured"}
	}
	return defaultEngine, nil
}
