/*
Package resources builds the Kubernetes objects submitted by the provisioner.

Everything here is pure: builders take plain values and return client-go typed
objects (or unstructured objects for the mongodb.com custom resources) without
touching a cluster. Literal bodies such as the operator RBAC rules and the
operator container environment are package-level tables so they can be tested
on their own.

# Operator

	ClusterRole()                  mongodb-enterprise-operator, 4 policy rules
	ServiceAccount(ns)             mongodb-enterprise-operator
	ClusterRoleBinding(ns)         ClusterRole -> ServiceAccount in ns
	OperatorDeployment(ns, opts)   1 replica, image and env from opts

# Project credentials

	CredentialsSecret(ns, user, key)         my-credentials (user, publicApiKey)
	ProjectConfigMap(ns, projectID, baseURL) my-project (projectId, baseUrl)

# MongoDB deployments

A DeploymentTarget is one of Standalone, ReplicaSet or ShardedCluster:

	obj := resources.MongoDB("mongodb", "my-replica-set", "4.0.0",
		resources.ReplicaSet{Members: 3},
		resources.MongoDBOptions{Flavor: resources.FlavorLegacy})

FlavorLegacy emits MongoDbStandalone / MongoDbReplicaSet / MongoDbShardedCluster
kinds with their own plurals. FlavorUnified emits kind MongoDB with plural
mongodb for every topology.
*/
package resources
