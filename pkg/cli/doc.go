// Package cli implements the command-line interface for the mdbprov tool.
//
// # Overview
//
// mdbprov provisions the MongoDB Enterprise operator and MongoDB custom
// resources into an existing Kubernetes namespace. It talks to the cluster
// directly through client-go; no Helm chart or manifest files are involved.
//
// # Commands
//
// provision - Run the full sample sequence:
//
//	mdbprov provision --config mdbprov.yaml
//	mdbprov provision --mongo-version 4.0.0 --delete
//	mdbprov provision --skip-operator --output cm://mongodb/provision-report
//
// Creates ClusterRole, ServiceAccount, ClusterRoleBinding and the operator
// Deployment, then Secret my-credentials and ConfigMap my-project, then one
// standalone, one replica set and one sharded cluster. With --delete the three
// resources are deleted again once all were submitted.
//
// operator - Deploy or remove the operator objects:
//
//	mdbprov operator deploy
//	mdbprov operator remove
//
// credentials - Create or remove the Ops Manager Secret and project ConfigMap:
//
//	mdbprov credentials create
//	mdbprov credentials remove
//
// create - Create a single MongoDB resource:
//
//	mdbprov create standalone --name my-standalone
//	mdbprov create replicaset --name my-replica-set --members 5
//	mdbprov create shardedcluster --name my-sharded-cluster --shards 2 --mongos 2
//
// delete - Delete a MongoDB resource:
//
//	mdbprov delete --name my-standalone --plural mongodbstandalones
//	mdbprov delete --name my-replica-set --type replicaset
//
// status - Print a MongoDB resource as stored by the API server:
//
//	mdbprov status --name my-standalone --type standalone --format json
//
// version - Print build information.
//
// # Failure Handling
//
// Each cluster API call is attempted exactly once. A failed call is logged and
// recorded in the run report, and the command moves on to the next call. The
// process exits 0 unless --fail-on-error is set and a call failed. A delete
// whose response carries no status is reported as "unknown" and is not a
// failure.
//
// # Output
//
// Reports are written in yaml (default), json or table format to stdout, a
// file, or a ConfigMap addressed as cm://namespace/name.
//
// # Exit Codes
//
//	0  success
//	1  error (invalid input, configuration, or --fail-on-error with failures)
//	2  interrupted or timed out
//
// # Configuration
//
// Settings are read from the YAML file named by --config or MDB_CONFIG, then
// overridden by MDB_NAMESPACE, MDB_PROJECT_ID, MDB_BASE_URL, MDB_API_USER,
// MDB_API_KEY and MDB_PERSISTENT. The cluster is selected by --kubeconfig and
// --context, falling back to the configuration file, KUBECONFIG,
// ~/.kube/config, and in-cluster configuration.
//
// Set LOG_LEVEL to debug, info, warn or error; --debug forces debug.
// --metrics-file writes Prometheus counters for every API call on exit.
package cli
