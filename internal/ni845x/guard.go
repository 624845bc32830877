package ni845x

// handleGuard pairs one native handle with its release function. The guard
// owns the handle exclusively: release happens at most once, and the guard
// is marked closed even when the release call fails so that a possibly
// invalid handle is never passed to the driver again.
type handleGuard struct {
	d       driver
	op      string // DLL entry point used for release, for error reporting
	handle  Handle
	release func(Handle) Status
	closed  bool
}

// get returns the guarded handle, or ErrHandleClosed after close.
func (g *handleGuard) get() (Handle, error) {
	if g.closed {
		return 0, ErrHandleClosed
	}
	return g.handle, nil
}

// close releases the handle. Calling close on an already closed guard is a
// no-op, not an error.
func (g *handleGuard) close() error {
	if g.closed {
		return nil
	}
	status := g.release(g.handle)
	g.closed = true
	g.handle = 0
	return statusError(g.d, g.op, status)
}
