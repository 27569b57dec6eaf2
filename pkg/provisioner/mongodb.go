package provisioner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/utils/ptr"

	mdberrors "github.com/mongodb/mongodb-kube-provisioner/pkg/errors"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/k8s/customobjects"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/logging"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

// Delete parameters applied to every MongoDB resource deletion.
const (
	DeleteGracePeriodSeconds int64 = 56
	DeletePropagationPolicy        = metav1.DeletePropagationBackground
)

// statusSuccess is the Status.status value of a completed deletion.
const statusSuccess = "Success"

// ErrUnexpectedDeleteStatus is returned when a delete response carries a status other than Success.
var ErrUnexpectedDeleteStatus = errors.New("unexpected delete status")

// DeleteStatus is the outcome of DeleteCustomResource.
type DeleteStatus int

const (
	// DeleteFailed means the request failed or the response status was not Success.
	DeleteFailed DeleteStatus = iota
	// DeleteSuccess means the response status was Success.
	DeleteSuccess
	// DeleteUnknown means the response carried no status string, for example
	// when the server returns the object still pending finalization.
	DeleteUnknown
)

// Succeeded reports whether the deletion completed with status Success.
func (s DeleteStatus) Succeeded() bool {
	return s == DeleteSuccess
}

func (s DeleteStatus) String() string {
	switch s {
	case DeleteSuccess:
		return logging.StatusSuccess
	case DeleteUnknown:
		return logging.StatusUnknown
	default:
		return logging.StatusError
	}
}

// classifyDeleteResponse maps a delete response body to a DeleteStatus.
func classifyDeleteResponse(resp map[string]any) (DeleteStatus, string) {
	raw, ok := resp["status"]
	if !ok {
		return DeleteUnknown, ""
	}
	s, ok := raw.(string)
	if !ok {
		return DeleteUnknown, ""
	}
	if s == statusSuccess {
		return DeleteSuccess, s
	}
	return DeleteFailed, s
}

// customKind returns the descriptor kind of a MongoDB plural for logs and metrics.
func customKind(plural string) resources.Kind {
	if k, ok := resources.KindForPlural(plural); ok {
		return k
	}
	return resources.Kind(plural)
}

// DeployCustomResource creates a MongoDB resource named name for target.
// The CRD kind and plural follow the configured flavor.
func (p *Provisioner) DeployCustomResource(ctx context.Context, target resources.DeploymentTarget, mongoVersion, name string) (resources.Ref, error) {
	if target == nil {
		return resources.Ref{}, mdberrors.New(mdberrors.ErrCodeInvalidRequest, "deployment target is required")
	}
	if name == "" {
		return resources.Ref{Kind: target.Kind()}, mdberrors.New(mdberrors.ErrCodeInvalidRequest, "resource name is required")
	}

	ns := p.cluster.Namespace
	opts := p.mongodb
	opts.Flavor = p.Flavor()
	gvr := resources.GroupVersionResource(opts.Flavor.Plural(target))
	obj := resources.MongoDB(ns, name, mongoVersion, target, opts)

	ref := resources.Ref{
		Kind:      target.Kind(),
		Resource:  gvr,
		Namespace: ns,
		Name:      name,
	}

	start := p.now()
	var created *unstructured.Unstructured
	err := p.wait(ctx)
	if err == nil {
		created, err = p.custom.Create(ctx, gvr, ns, obj)
	}
	if err := p.track(OpCreate, target.Kind(), name, start, err); err != nil {
		return ref, err
	}
	ref.UID = created.GetUID()
	return ref, nil
}

// DeleteCustomResource deletes the MongoDB resource name of the given plural
// with background propagation and a 56 second grace period.
//
// The returned status is DeleteSuccess only when the response status is
// "Success". A response without a status string yields DeleteUnknown and a
// nil error. API failures and other statuses yield DeleteFailed and an error.
func (p *Provisioner) DeleteCustomResource(ctx context.Context, name, plural string) (DeleteStatus, error) {
	ns := p.cluster.Namespace
	kind := customKind(plural)
	gvr := resources.GroupVersionResource(plural)

	start := p.now()
	if err := p.wait(ctx); err != nil {
		return DeleteFailed, p.track(OpDelete, kind, name, start, err)
	}
	resp, err := p.custom.Delete(ctx, gvr, ns, name, customobjects.DeleteOptions{
		PropagationPolicy:  DeletePropagationPolicy,
		GracePeriodSeconds: ptr.To(DeleteGracePeriodSeconds),
		OrphanDependents:   ptr.To(false),
	})
	if err != nil {
		return DeleteFailed, p.track(OpDelete, kind, name, start, err)
	}

	status, raw := classifyDeleteResponse(resp)
	switch status {
	case DeleteSuccess:
		return status, p.track(OpDelete, kind, name, start, nil)
	case DeleteUnknown:
		elapsed := p.now().Sub(start)
		observeRequest(OpDelete, kind, logging.StatusUnknown, elapsed)
		p.logger.Warn("delete response carried no status",
			logging.Operation(OpDelete),
			logging.Kind(kind.String()),
			logging.ResourceName(name),
			slog.Duration("duration", elapsed))
		return status, nil
	default:
		cause := fmt.Errorf("%w %q", ErrUnexpectedDeleteStatus, raw)
		return status, p.track(OpDelete, kind, name, start, cause)
	}
}

// GetCustomResource reads back the MongoDB resource name of the given plural.
func (p *Provisioner) GetCustomResource(ctx context.Context, name, plural string) (*unstructured.Unstructured, error) {
	ns := p.cluster.Namespace
	kind := customKind(plural)

	start := p.now()
	var obj *unstructured.Unstructured
	err := p.wait(ctx)
	if err == nil {
		obj, err = p.custom.Get(ctx, resources.GroupVersionResource(plural), ns, name)
	}
	if err := p.track(OpGet, kind, name, start, err); err != nil {
		return nil, err
	}
	return obj, nil
}
