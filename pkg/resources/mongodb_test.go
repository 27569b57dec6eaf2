package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func TestMongoDBSpec_Standalone(t *testing.T) {
	for _, persistent := range []bool{true, false} {
		spec := MongoDBSpec("4.0.0", Standalone{}, MongoDBOptions{Persistent: persistent})

		assert.Equal(t, map[string]any{
			"persistent":  persistent,
			"version":     "4.0.0",
			"credentials": "my-credentials",
			"project":     "my-project",
		}, spec)
	}
}

func TestMongoDBSpec_ReplicaSet(t *testing.T) {
	spec := MongoDBSpec("4.0.0", ReplicaSet{Members: 3}, MongoDBOptions{})

	assert.Equal(t, map[string]any{
		"members":     int64(3),
		"persistent":  false,
		"version":     "4.0.0",
		"credentials": "my-credentials",
		"project":     "my-project",
	}, spec)
}

func TestMongoDBSpec_ShardedCluster(t *testing.T) {
	target := ShardedCluster{ShardCount: 2, MongosCount: 2, MongodsPerShard: 3, ConfigServerCount: 3}
	spec := MongoDBSpec("4.0.0", target, MongoDBOptions{})

	assert.Equal(t, map[string]any{
		"shardCount":           int64(2),
		"mongodsPerShardCount": int64(3),
		"mongosCount":          int64(2),
		"configServerCount":    int64(3),
		"persistent":           false,
		"version":              "4.0.0",
		"credentials":          "my-credentials",
		"project":              "my-project",
	}, spec)
}

func TestMongoDB_Descriptor(t *testing.T) {
	tests := []struct {
		name       string
		target     DeploymentTarget
		flavor     Flavor
		wantKind   string
		wantPlural string
	}{
		{"legacy standalone", Standalone{}, FlavorLegacy, "MongoDbStandalone", "mongodbstandalones"},
		{"legacy replica set", ReplicaSet{Members: 3}, FlavorLegacy, "MongoDbReplicaSet", "mongodbreplicasets"},
		{"legacy sharded", ShardedCluster{ShardCount: 1}, FlavorLegacy, "MongoDbShardedCluster", "mongodbshardedclusters"},
		{"default flavor is legacy", Standalone{}, "", "MongoDbStandalone", "mongodbstandalones"},
		{"unified standalone", Standalone{}, FlavorUnified, "MongoDB", "mongodb"},
		{"unified sharded", ShardedCluster{}, FlavorUnified, "MongoDB", "mongodb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := MongoDB("mongodb", "my-db", "4.0.0", tt.target, MongoDBOptions{Flavor: tt.flavor})

			assert.Equal(t, "mongodb.com/v1", obj.GetAPIVersion())
			assert.Equal(t, tt.wantKind, obj.GetKind())
			assert.Equal(t, "my-db", obj.GetName())
			assert.Equal(t, "mongodb", obj.GetNamespace())

			f := tt.flavor
			if f == "" {
				f = FlavorLegacy
			}
			assert.Equal(t, tt.wantPlural, f.Plural(tt.target))

			version, found, err := unstructured.NestedString(obj.Object, "spec", "version")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "4.0.0", version)
		})
	}
}

func TestMongoDB_DeepCopySafe(t *testing.T) {
	obj := MongoDB("mongodb", "my-rs", "4.0.0", ReplicaSet{Members: 5}, MongoDBOptions{})

	cp := obj.DeepCopy()
	members, found, err := unstructured.NestedInt64(cp.Object, "spec", "members")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(5), members)
}

func TestTargetKinds(t *testing.T) {
	assert.Equal(t, KindMongoStandalone, Standalone{}.Kind())
	assert.Equal(t, KindMongoReplicaSet, ReplicaSet{}.Kind())
	assert.Equal(t, KindMongoShardedCluster, ShardedCluster{}.Kind())
}

func TestParseTargetType(t *testing.T) {
	got, err := ParseTargetType("ReplicaSet")
	require.NoError(t, err)
	assert.Equal(t, TargetReplicaSet, got)

	_, err = ParseTargetType("replcaset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "replicaset"`)

	_, err = ParseTargetType("cluster-of-doom")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestParseFlavor(t *testing.T) {
	f, err := ParseFlavor("")
	require.NoError(t, err)
	assert.Equal(t, FlavorLegacy, f)

	f, err = ParseFlavor("Unified")
	require.NoError(t, err)
	assert.Equal(t, FlavorUnified, f)

	_, err = ParseFlavor("unifed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unified")
}

func TestValidatePlural(t *testing.T) {
	for _, p := range KnownPlurals() {
		assert.NoError(t, ValidatePlural(p))
	}

	err := ValidatePlural("mongodbstandalone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "mongodbstandalones"`)
}

func TestKindForPlural(t *testing.T) {
	k, ok := KindForPlural("mongodbshardedclusters")
	assert.True(t, ok)
	assert.Equal(t, KindMongoShardedCluster, k)

	_, ok = KindForPlural("mongodb")
	assert.False(t, ok)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"standalone", "replicaset", "shardedcluster"}

	assert.Equal(t, "standalone", Suggest("standalon", candidates))
	assert.Equal(t, "shardedcluster", Suggest("sharded-cluster", candidates))
	assert.Equal(t, "", Suggest("", candidates))
	assert.Equal(t, "", Suggest("zzz", candidates))
}
