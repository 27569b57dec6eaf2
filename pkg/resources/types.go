package resources

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
)

// Kind identifies the type of a resource descriptor.
type Kind string

const (
	KindClusterRole         Kind = "ClusterRole"
	KindServiceAccount      Kind = "ServiceAccount"
	KindClusterRoleBinding  Kind = "ClusterRoleBinding"
	KindDeployment          Kind = "Deployment"
	KindSecret              Kind = "Secret"
	KindConfigMap           Kind = "ConfigMap"
	KindMongoStandalone     Kind = "MongoStandalone"
	KindMongoReplicaSet     Kind = "MongoReplicaSet"
	KindMongoShardedCluster Kind = "MongoShardedCluster"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Ref points at an object created in the cluster.
type Ref struct {
	Kind      Kind                        `json:"kind" yaml:"kind"`
	Resource  schema.GroupVersionResource `json:"-" yaml:"-"`
	Namespace string                      `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name      string                      `json:"name" yaml:"name"`
	UID       types.UID                   `json:"uid,omitempty" yaml:"uid,omitempty"`
}

// String renders the reference as kind/namespace/name.
func (r Ref) String() string {
	if r.Namespace == "" {
		return fmt.Sprintf("%s/%s", r.Kind, r.Name)
	}
	return fmt.Sprintf("%s/%s/%s", r.Kind, r.Namespace, r.Name)
}

// TargetType names a DeploymentTarget shape on the command line and in config.
type TargetType string

const (
	TargetStandalone     TargetType = "standalone"
	TargetReplicaSet     TargetType = "replicaset"
	TargetShardedCluster TargetType = "shardedcluster"
)

// SupportedTargetTypes returns the valid target type names.
func SupportedTargetTypes() []string {
	return []string{string(TargetStandalone), string(TargetReplicaSet), string(TargetShardedCluster)}
}

// ParseTargetType validates s, suggesting the closest valid name on a typo.
func ParseTargetType(s string) (TargetType, error) {
	t := TargetType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TargetStandalone, TargetReplicaSet, TargetShardedCluster:
		return t, nil
	}
	return "", unsupportedValueError("deployment target", s, SupportedTargetTypes())
}

// DeploymentTarget is the closed set of MongoDB deployment shapes.
// Implementations are Standalone, ReplicaSet and ShardedCluster.
type DeploymentTarget interface {
	// Kind returns the descriptor kind emitted for this target.
	Kind() Kind
	// Type returns the target type name.
	Type() TargetType

	applySpec(spec map[string]any)
}

// Standalone is a single mongod process.
type Standalone struct{}

func (Standalone) Kind() Kind               { return KindMongoStandalone }
func (Standalone) Type() TargetType         { return TargetStandalone }
func (Standalone) applySpec(map[string]any) {}

// ReplicaSet is a replica set with the given number of members.
type ReplicaSet struct {
	Members uint
}

func (ReplicaSet) Kind() Kind       { return KindMongoReplicaSet }
func (ReplicaSet) Type() TargetType { return TargetReplicaSet }

func (r ReplicaSet) applySpec(spec map[string]any) {
	spec["members"] = int64(r.Members)
}

// ShardedCluster is a sharded cluster topology.
type ShardedCluster struct {
	ShardCount        uint
	MongodsPerShard   uint
	MongosCount       uint
	ConfigServerCount uint
}

func (ShardedCluster) Kind() Kind       { return KindMongoShardedCluster }
func (ShardedCluster) Type() TargetType { return TargetShardedCluster }

func (s ShardedCluster) applySpec(spec map[string]any) {
	spec["shardCount"] = int64(s.ShardCount)
	spec["mongodsPerShardCount"] = int64(s.MongodsPerShard)
	spec["mongosCount"] = int64(s.MongosCount)
	spec["configServerCount"] = int64(s.ConfigServerCount)
}

// Default topology values used by the samples.
const (
	DefaultReplicaSetMembers = 3
	DefaultMongodsPerShard   = 3
	DefaultConfigServerCount = 3
)

var (
	_ DeploymentTarget = Standalone{}
	_ DeploymentTarget = ReplicaSet{}
	_ DeploymentTarget = ShardedCluster{}
)
