package autoload

import "sync"

// RecordingLoader is a Loader that records paths instead of executing them.
type RecordingLoader struct {
	mu     sync.Mutex
	loaded []string
}

// Load implements the Loader interface.
func (l *RecordingLoader) Load(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = append(l.loaded, path)
	return nil
}

// Loaded returns the recorded paths in load order.
func (l *RecordingLoader) Loaded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.loaded...)
}
