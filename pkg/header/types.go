// Package header stamps mdbprov documents with Kubernetes-style type information.
package header

import (
	"time"
)

// APIVersion is the API version of every document mdbprov writes.
const APIVersion = "mdbprov.mongodb.com/v1"

// MetadataGeneratedAt is the metadata key holding the RFC 3339 generation time.
const MetadataGeneratedAt = "generated-at"

// Header contains type and versioning information for mdbprov documents.
// It follows Kubernetes-style resource conventions with Kind, APIVersion, and Metadata fields.
type Header struct {
	// Kind is the document type, such as ProvisionReport.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs describing where and when the document was produced.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Set initializes the header for kind, generated at the given time.
func (h *Header) Set(kind string, at time.Time) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = map[string]string{
		MetadataGeneratedAt: at.UTC().Format(time.RFC3339),
	}
}
