package defaults

import "time"

// Kubernetes API timeouts.
const (
	// KubernetesRequestTimeout bounds a single cluster API request.
	KubernetesRequestTimeout = 30 * time.Second
)

// Output timeouts.
const (
	// ConfigMapWriteTimeout bounds the create-or-update of a report ConfigMap.
	ConfigMapWriteTimeout = 15 * time.Second
)

// Concurrency limits.
const (
	// InspectConcurrency bounds concurrent reads when inspecting provisioned objects.
	InspectConcurrency = 4
)
