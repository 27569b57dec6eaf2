package resources

import (
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

const (
	// Group is the API group of the MongoDB custom resources.
	Group = "mongodb.com"
	// Version is the served version of the MongoDB custom resources.
	Version = "v1"
)

// Flavor selects which generation of the MongoDB CRDs to target.
type Flavor string

const (
	// FlavorLegacy uses one CRD per topology (MongoDbStandalone, MongoDbReplicaSet, MongoDbShardedCluster).
	FlavorLegacy Flavor = "legacy"
	// FlavorUnified uses the single MongoDB CRD for every topology.
	FlavorUnified Flavor = "unified"
)

// SupportedFlavors returns the valid flavor names.
func SupportedFlavors() []string {
	return []string{string(FlavorLegacy), string(FlavorUnified)}
}

// ParseFlavor validates s. Empty input selects FlavorLegacy.
func ParseFlavor(s string) (Flavor, error) {
	f := Flavor(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FlavorLegacy, nil
	case FlavorLegacy, FlavorUnified:
		return f, nil
	}
	return "", unsupportedValueError("CRD flavor", s, SupportedFlavors())
}

type crdNames struct {
	kind   string
	plural string
}

var legacyNames = map[TargetType]crdNames{
	TargetStandalone:     {kind: "MongoDbStandalone", plural: "mongodbstandalones"},
	TargetReplicaSet:     {kind: "MongoDbReplicaSet", plural: "mongodbreplicasets"},
	TargetShardedCluster: {kind: "MongoDbShardedCluster", plural: "mongodbshardedclusters"},
}

var unifiedNames = crdNames{kind: "MongoDB", plural: "mongodb"}

func (f Flavor) names(t TargetType) crdNames {
	if f == FlavorUnified {
		return unifiedNames
	}
	return legacyNames[t]
}

// Plural returns the resource plural for target under this flavor.
func (f Flavor) Plural(target DeploymentTarget) string {
	return f.names(target.Type()).plural
}

// Kind returns the custom resource kind for target under this flavor.
func (f Flavor) Kind(target DeploymentTarget) string {
	return f.names(target.Type()).kind
}

// KnownPlurals lists every MongoDB resource plural across flavors.
func KnownPlurals() []string {
	return []string{
		legacyNames[TargetStandalone].plural,
		legacyNames[TargetReplicaSet].plural,
		legacyNames[TargetShardedCluster].plural,
		unifiedNames.plural,
	}
}

// ValidatePlural checks that plural is a known MongoDB resource plural.
func ValidatePlural(plural string) error {
	for _, p := range KnownPlurals() {
		if p == plural {
			return nil
		}
	}
	return unsupportedValueError("resource plural", plural, KnownPlurals())
}

// KindForPlural maps a legacy plural back to the descriptor kind.
// The unified plural spans every topology, so ok is false for it.
func KindForPlural(plural string) (Kind, bool) {
	for t, n := range legacyNames {
		if n.plural == plural {
			switch t {
			case TargetStandalone:
				return KindMongoStandalone, true
			case TargetReplicaSet:
				return KindMongoReplicaSet, true
			case TargetShardedCluster:
				return KindMongoShardedCluster, true
			}
		}
	}
	return "", false
}

// GroupVersionResource returns the GVR of a MongoDB resource plural.
func GroupVersionResource(plural string) schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    Group,
		Version:  Version,
		Resource: plural,
	}
}

// APIVersion is the apiVersion of every MongoDB resource.
func APIVersion() string {
	return schema.GroupVersion{Group: Group, Version: Version}.String()
}

// MongoDBOptions carries the settings shared by every MongoDB resource.
type MongoDBOptions struct {
	Persistent bool
	Flavor     Flavor
}

// MongoDBSpec returns the spec of a MongoDB resource for target.
func MongoDBSpec(version string, target DeploymentTarget, opts MongoDBOptions) map[string]any {
	spec := map[string]any{
		"persistent":  opts.Persistent,
		"version":     version,
		"credentials": CredentialsSecretName,
		"project":     ProjectConfigMapName,
	}
	target.applySpec(spec)
	return spec
}

// MongoDB builds a MongoDB custom resource named name in namespace.
func MongoDB(namespace, name, version string, target DeploymentTarget, opts MongoDBOptions) *unstructured.Unstructured {
	flavor := opts.Flavor
	if flavor == "" {
		flavor = FlavorLegacy
	}

	return &unstructured.Unstructured{
		Object: map[string]any{
			"apiVersion": APIVersion(),
			"kind":       flavor.Kind(target),
			"metadata": map[string]any{
				"name":      name,
				"namespace": namespace,
			},
			"spec": MongoDBSpec(version, target, opts),
		},
	}
}
