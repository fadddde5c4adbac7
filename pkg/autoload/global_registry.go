package autoload

var globalRegistry = NewRegistry()

// GlobalRegistry returns the process-wide registry. Tests should construct
// their own with NewRegistry, or Clear this one on teardown.
func GlobalRegistry() *Registry {
	return globalRegistry
}
