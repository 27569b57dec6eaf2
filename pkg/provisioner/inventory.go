package provisioner

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/defaults"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/header"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

// ObjectState is the observed state of one object named by a Plan.
type ObjectState struct {
	Kind      resources.Kind `json:"kind" yaml:"kind"`
	Name      string         `json:"name" yaml:"name"`
	Namespace string         `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Present   bool           `json:"present" yaml:"present"`
	UID       string         `json:"uid,omitempty" yaml:"uid,omitempty"`
	CreatedAt *time.Time     `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Inventory lists the observed state of every object of a Plan, in creation order.
type Inventory struct {
	header.Header `json:",inline" yaml:",inline"`

	Namespace string        `json:"namespace" yaml:"namespace"`
	Objects   []ObjectState `json:"objects" yaml:"objects"`
}

type probe struct {
	kind      resources.Kind
	name      string
	namespace string
	get       func(ctx context.Context) (metav1.Object, error)
}

// Inspect reads every object plan would create and reports which exist.
// Reads run concurrently; a failed read is recorded on its entry and does not
// stop the others. The error is non-nil only when ctx ends first.
func (p *Provisioner) Inspect(ctx context.Context, plan Plan) (*Inventory, error) {
	probes := p.probes(plan)
	states := make([]ObjectState, len(probes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaults.InspectConcurrency)
	for i, pr := range probes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			states[i] = p.inspect(gctx, pr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("inspection interrupted: %w", err)
	}

	inv := &Inventory{
		Namespace: p.cluster.Namespace,
		Objects:   states,
	}
	inv.Set(KindInventory, p.now())
	return inv, nil
}

func (p *Provisioner) probes(plan Plan) []probe {
	ns := p.cluster.Namespace
	name := resources.OperatorName
	var probes []probe

	if plan.Operator {
		probes = append(probes,
			probe{resources.KindClusterRole, name, "", func(ctx context.Context) (metav1.Object, error) {
				return p.kube.RbacV1().ClusterRoles().Get(ctx, name, metav1.GetOptions{})
			}},
			probe{resources.KindServiceAccount, name, ns, func(ctx context.Context) (metav1.Object, error) {
				return p.kube.CoreV1().ServiceAccounts(ns).Get(ctx, name, metav1.GetOptions{})
			}},
			probe{resources.KindClusterRoleBinding, name, "", func(ctx context.Context) (metav1.Object, error) {
				return p.kube.RbacV1().ClusterRoleBindings().Get(ctx, name, metav1.GetOptions{})
			}},
			probe{resources.KindDeployment, name, ns, func(ctx context.Context) (metav1.Object, error) {
				return p.kube.AppsV1().Deployments(ns).Get(ctx, name, metav1.GetOptions{})
			}},
		)
	}

	if plan.Credentials {
		probes = append(probes,
			probe{resources.KindSecret, resources.CredentialsSecretName, ns, func(ctx context.Context) (metav1.Object, error) {
				return p.kube.CoreV1().Secrets(ns).Get(ctx, resources.CredentialsSecretName, metav1.GetOptions{})
			}},
			probe{resources.KindConfigMap, resources.ProjectConfigMapName, ns, func(ctx context.Context) (metav1.Object, error) {
				return p.kube.CoreV1().ConfigMaps(ns).Get(ctx, resources.ProjectConfigMapName, metav1.GetOptions{})
			}},
		)
	}

	flavor := p.Flavor()
	for _, cr := range plan.Resources {
		if cr.Target == nil {
			continue
		}
		gvr := resources.GroupVersionResource(flavor.Plural(cr.Target))
		crName := cr.Name
		probes = append(probes, probe{cr.Target.Kind(), crName, ns, func(ctx context.Context) (metav1.Object, error) {
			return p.custom.Get(ctx, gvr, ns, crName)
		}})
	}
	return probes
}

func (p *Provisioner) inspect(ctx context.Context, pr probe) ObjectState {
	state := ObjectState{
		Kind:      pr.kind,
		Name:      pr.name,
		Namespace: pr.namespace,
	}

	start := p.now()
	var obj metav1.Object
	err := p.wait(ctx)
	if err == nil {
		obj, err = pr.get(ctx)
	}
	missing := apierrors.IsNotFound(err)
	if err := p.track(OpGet, pr.kind, pr.name, start, ignoreNotFound(err)); err != nil {
		state.Error = err.Error()
		return state
	}
	if missing {
		return state
	}

	state.Present = true
	state.UID = string(obj.GetUID())
	if ts := obj.GetCreationTimestamp(); !ts.IsZero() {
		t := ts.UTC()
		state.CreatedAt = &t
	}
	return state
}

// Missing returns the entries that were read successfully and do not exist.
func (i *Inventory) Missing() []ObjectState {
	var missing []ObjectState
	for _, o := range i.Objects {
		if !o.Present && o.Error == "" {
			missing = append(missing, o)
		}
	}
	return missing
}

// TableHeader implements serializer.Tabular.
func (i *Inventory) TableHeader() []string {
	return []string{"KIND", "NAME", "NAMESPACE", "PRESENT", "AGE", "ERROR"}
}

// TableRows implements serializer.Tabular.
func (i *Inventory) TableRows() [][]string {
	rows := make([][]string, 0, len(i.Objects))
	for _, o := range i.Objects {
		age := ""
		if o.CreatedAt != nil {
			age = time.Since(*o.CreatedAt).Round(time.Second).String()
		}
		rows = append(rows, []string{
			o.Kind.String(),
			o.Name,
			o.Namespace,
			strconv.FormatBool(o.Present),
			age,
			o.Error,
		})
	}
	return rows
}
