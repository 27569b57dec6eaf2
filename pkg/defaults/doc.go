// Package defaults provides centralized timeout and concurrency constants for mdbprov.
//
// # Timeout Categories
//
//   - Kubernetes timeouts: for single cluster API requests
//   - Output timeouts: for writing reports to a ConfigMap
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
//	defer cancel()
//
// A command-wide --timeout still bounds every call; these values only cap a
// single request when no tighter deadline is set.
package defaults
