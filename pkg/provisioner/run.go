package provisioner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/header"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/logging"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

// CustomResource is one MongoDB resource in a Plan.
type CustomResource struct {
	Name    string
	Version string
	Target  resources.DeploymentTarget
}

// Plan selects the steps of a provisioning run.
type Plan struct {
	// Operator deploys the operator RBAC objects and Deployment.
	Operator bool
	// Credentials creates the credentials Secret and project ConfigMap.
	Credentials bool
	// Resources are created in order after the operator and credentials.
	Resources []CustomResource
	// DeleteAfter deletes every entry of Resources once all were submitted.
	DeleteAfter bool
}

// SamplePlan returns the full sample sequence: operator, credentials, a standalone,
// a three member replica set and a two shard cluster, all at mongoVersion.
func SamplePlan(mongoVersion string, deleteAfter bool) Plan {
	return Plan{
		Operator:    true,
		Credentials: true,
		Resources: []CustomResource{
			{
				Name:    "my-standalone",
				Version: mongoVersion,
				Target:  resources.Standalone{},
			},
			{
				Name:    "my-replica-set",
				Version: mongoVersion,
				Target:  resources.ReplicaSet{Members: resources.DefaultReplicaSetMembers},
			},
			{
				Name:    "my-sharded-cluster",
				Version: mongoVersion,
				Target: resources.ShardedCluster{
					ShardCount:        2,
					MongodsPerShard:   resources.DefaultMongodsPerShard,
					MongosCount:       2,
					ConfigServerCount: resources.DefaultConfigServerCount,
				},
			},
		},
		DeleteAfter: deleteAfter,
	}
}

// Run executes plan and records one Step per remote call.
// A failed step is recorded and the run continues with the next one.
func (p *Provisioner) Run(ctx context.Context, plan Plan) *Report {
	report := &Report{
		RunID:     uuid.NewString(),
		Namespace: p.cluster.Namespace,
		Flavor:    p.Flavor(),
		StartedAt: p.now().UTC(),
	}
	report.Set(KindProvisionReport, report.StartedAt)

	run := *p
	run.logger = p.logger.With(logging.RunID(report.RunID))
	run.logger.Info("provisioning run started",
		"operator", plan.Operator,
		"credentials", plan.Credentials,
		"resources", len(plan.Resources),
		"delete_after", plan.DeleteAfter)

	if plan.Operator {
		for _, s := range run.operatorSteps() {
			report.record(ctx, run.now, OpCreate, s.kind, s.name, s.run)
		}
	}

	if plan.Credentials {
		report.record(ctx, run.now, OpCreate, resources.KindSecret, resources.CredentialsSecretName, run.CreateSecret)
		report.record(ctx, run.now, OpCreate, resources.KindConfigMap, resources.ProjectConfigMapName, run.CreateConfigMap)
	}

	for _, cr := range plan.Resources {
		kind := resources.Kind("")
		if cr.Target != nil {
			kind = cr.Target.Kind()
		}
		report.record(ctx, run.now, OpCreate, kind, cr.Name, func(ctx context.Context) (resources.Ref, error) {
			return run.DeployCustomResource(ctx, cr.Target, cr.Version, cr.Name)
		})
	}

	if plan.DeleteAfter {
		flavor := run.Flavor()
		for _, cr := range plan.Resources {
			if cr.Target == nil {
				continue
			}
			plural := flavor.Plural(cr.Target)
			start := run.now()
			status, err := run.DeleteCustomResource(ctx, cr.Name, plural)
			report.Steps = append(report.Steps, newStep(OpDelete, cr.Target.Kind(), cr.Name, status.String(), err, run.now().Sub(start)))
		}
	}

	report.Duration = run.now().Sub(report.StartedAt)
	run.logger.Info("provisioning run finished",
		"steps", len(report.Steps),
		"failed", len(report.Failed()),
		slog.Duration("duration", report.Duration))
	return report
}

// Document kinds written by the provisioner.
const (
	KindProvisionReport = "ProvisionReport"
	KindInventory       = "Inventory"
)

// Report is the outcome of a provisioning run.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	RunID     string           `json:"runId" yaml:"runId"`
	Namespace string           `json:"namespace" yaml:"namespace"`
	Flavor    resources.Flavor `json:"flavor" yaml:"flavor"`
	StartedAt time.Time        `json:"startedAt" yaml:"startedAt"`
	Duration  time.Duration    `json:"duration" yaml:"duration"`
	Steps     []Step           `json:"steps" yaml:"steps"`
}

// Step is one remote call of a run. Status is success, error or unknown.
// Object is kind/namespace/name of the object a successful create produced.
type Step struct {
	Operation string         `json:"operation" yaml:"operation"`
	Kind      resources.Kind `json:"kind" yaml:"kind"`
	Name      string         `json:"name" yaml:"name"`
	Status    string         `json:"status" yaml:"status"`
	UID       string         `json:"uid,omitempty" yaml:"uid,omitempty"`
	Object    string         `json:"object,omitempty" yaml:"object,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
	Duration  time.Duration  `json:"duration" yaml:"duration"`
}

func newStep(op string, kind resources.Kind, name, status string, err error, elapsed time.Duration) Step {
	s := Step{
		Operation: op,
		Kind:      kind,
		Name:      name,
		Status:    status,
		Duration:  elapsed,
	}
	if err != nil {
		s.Status = logging.StatusError
		s.Error = err.Error()
	}
	return s
}

func (r *Report) record(ctx context.Context, now func() time.Time, op string, kind resources.Kind, name string,
	fn func(context.Context) (resources.Ref, error)) {
	start := now()
	ref, err := fn(ctx)
	s := newStep(op, kind, name, logging.StatusSuccess, err, now().Sub(start))
	if err == nil {
		s.UID = string(ref.UID)
		s.Object = ref.String()
	}
	r.Steps = append(r.Steps, s)
}

// Failed returns the steps that ended in error.
func (r *Report) Failed() []Step {
	var failed []Step
	for _, s := range r.Steps {
		if s.Status == logging.StatusError {
			failed = append(failed, s)
		}
	}
	return failed
}

// HasFailures reports whether any step ended in error.
func (r *Report) HasFailures() bool {
	return len(r.Failed()) > 0
}

// Summary returns a one-line description of the run.
func (r *Report) Summary() string {
	var ok, unknown int
	for _, s := range r.Steps {
		switch s.Status {
		case logging.StatusSuccess:
			ok++
		case logging.StatusUnknown:
			unknown++
		}
	}
	return fmt.Sprintf("%d steps: %d succeeded, %d failed, %d unknown",
		len(r.Steps), ok, len(r.Failed()), unknown)
}

// TableHeader implements serializer.Tabular.
func (r *Report) TableHeader() []string {
	return []string{"OPERATION", "KIND", "NAME", "STATUS", "DURATION", "ERROR"}
}

// TableRows implements serializer.Tabular.
func (r *Report) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Steps))
	for _, s := range r.Steps {
		rows = append(rows, []string{
			s.Operation,
			s.Kind.String(),
			s.Name,
			s.Status,
			s.Duration.Round(time.Millisecond).String(),
			s.Error,
		})
	}
	return rows
}
