/*
Package provisioner submits the MongoDB Enterprise operator and MongoDB
custom resources to a Kubernetes cluster.

A Provisioner is built from a typed clientset, a custom objects client and a
read-only ClusterContext (namespace, Ops Manager credentials and project).
Every operation is a single remote call, or a fixed sequence of them, with no
retries and no reconciliation.

# Resources

The operator is installed as four objects, created in this order:

  - ClusterRole mongodb-enterprise-operator
  - ServiceAccount mongodb-enterprise-operator
  - ClusterRoleBinding mongodb-enterprise-operator
  - Deployment mongodb-enterprise-operator

MongoDB resources reference the credentials Secret (my-credentials) and the
project ConfigMap (my-project) by name, so both must exist before the operator
can reconcile them.

# Failure Policy

Failures are logged and returned to the caller, never retried. DeployOperator
attempts every sub-step even after one fails and joins the errors. Run
records every call in a Report and never stops early.

DeleteCustomResource distinguishes three outcomes: DeleteSuccess when the
server answers with status Success, DeleteUnknown when the response carries
no status string, and DeleteFailed otherwise.

# Usage Example

	clients, err := client.BuildClients("", "")
	if err != nil {
		return err
	}

	p := provisioner.New(clients.Kube, clients.CustomObjects, provisioner.ClusterContext{
		Namespace:   "mongodb",
		Credentials: provisioner.Credentials{APIUser: "first.last@example.com", APIKey: "my-public-api-key"},
		Project:     provisioner.Project{ProjectID: "my-project-id", BaseURL: "https://my-ops-cloud-manager-url"},
	})

	report := p.Run(ctx, provisioner.SamplePlan("4.0.0", false))
	fmt.Println(report.Summary())

# Metrics

Every remote call increments mdbprov_api_requests_total and observes
mdbprov_api_request_duration_seconds. WriteMetrics dumps the default registry
to a textfile collector file.
*/
package provisioner
