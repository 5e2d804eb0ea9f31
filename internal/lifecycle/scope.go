package lifecycle

import "sync"

// Scope collects release functions for a view and runs them once on Close.
type Scope struct {
	mu       sync.Mutex
	releases []func()
	closed   bool
}

// Add registers release. If the scope is already closed, release runs immediately.
func (scope *Scope) Add(release func()) {
	if release == nil {
		return
	}
	scope.mu.Lock()
	if scope.closed {
		scope.mu.Unlock()
		release()
		return
	}
	scope.releases = append(scope.releases, release)
	scope.mu.Unlock()
}

// Close runs every registered release in reverse order. Later calls do nothing.
func (scope *Scope) Close() {
	scope.mu.Lock()
	if scope.closed {
		scope.mu.Unlock()
		return
	}
	scope.closed = true
	releases := scope.releases
	scope.releases = nil
	scope.mu.Unlock()

	for index := len(releases) - 1; index >= 0; index-- {
		releases[index]()
	}
}

// Closed reports whether Close has run.
func (scope *Scope) Closed() bool {
	scope.mu.Lock()
	defer scope.mu.Unlock()
	return scope.closed
}
