package provisioner

import (
	"context"
	"errors"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/utils/ptr"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

var (
	clusterRolesResource        = rbacv1.SchemeGroupVersion.WithResource("clusterroles")
	serviceAccountsResource     = corev1.SchemeGroupVersion.WithResource("serviceaccounts")
	clusterRoleBindingsResource = rbacv1.SchemeGroupVersion.WithResource("clusterrolebindings")
	deploymentsResource         = appsv1.SchemeGroupVersion.WithResource("deployments")
	secretsResource             = corev1.SchemeGroupVersion.WithResource("secrets")
	configMapsResource          = corev1.SchemeGroupVersion.WithResource("configmaps")
)

// subStep is one remote call of a multi-call operation.
type subStep struct {
	kind resources.Kind
	name string
	run  func(ctx context.Context) (resources.Ref, error)
}

// operatorSteps returns the operator sub-steps in creation order.
func (p *Provisioner) operatorSteps() []subStep {
	return []subStep{
		{resources.KindClusterRole, resources.OperatorName, p.createClusterRole},
		{resources.KindServiceAccount, resources.OperatorName, p.createServiceAccount},
		{resources.KindClusterRoleBinding, resources.OperatorName, p.createClusterRoleBinding},
		{resources.KindDeployment, resources.OperatorName, p.createOperatorDeployment},
	}
}

// DeployOperator creates the operator ClusterRole, ServiceAccount, ClusterRoleBinding
// and Deployment, in that order.
//
// A failed sub-step does not stop the later ones. The returned error joins
// every sub-step failure and is nil when all four succeeded.
func (p *Provisioner) DeployOperator(ctx context.Context) error {
	var errs []error
	for _, s := range p.operatorSteps() {
		if _, err := s.run(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveOperator deletes the operator Deployment, ClusterRoleBinding, ServiceAccount
// and ClusterRole. Objects that are already gone are skipped.
func (p *Provisioner) RemoveOperator(ctx context.Context) error {
	ns := p.cluster.Namespace
	background := metav1.DeleteOptions{PropagationPolicy: ptr.To(metav1.DeletePropagationBackground)}

	deletes := []struct {
		kind resources.Kind
		del  func(ctx context.Context) error
	}{
		{resources.KindDeployment, func(ctx context.Context) error {
			return p.kube.AppsV1().Deployments(ns).Delete(ctx, resources.OperatorName, background)
		}},
		{resources.KindClusterRoleBinding, func(ctx context.Context) error {
			return p.kube.RbacV1().ClusterRoleBindings().Delete(ctx, resources.OperatorName, metav1.DeleteOptions{})
		}},
		{resources.KindServiceAccount, func(ctx context.Context) error {
			return p.kube.CoreV1().ServiceAccounts(ns).Delete(ctx, resources.OperatorName, metav1.DeleteOptions{})
		}},
		{resources.KindClusterRole, func(ctx context.Context) error {
			return p.kube.RbacV1().ClusterRoles().Delete(ctx, resources.OperatorName, metav1.DeleteOptions{})
		}},
	}

	var errs []error
	for _, d := range deletes {
		start := p.now()
		err := p.wait(ctx)
		if err == nil {
			err = ignoreNotFound(d.del(ctx))
		}
		if err := p.track(OpDelete, d.kind, resources.OperatorName, start, err); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Provisioner) createClusterRole(ctx context.Context) (resources.Ref, error) {
	obj := resources.ClusterRole()
	return p.create(ctx, resources.KindClusterRole, clusterRolesResource, "", obj.Name, func(ctx context.Context) (metav1.Object, error) {
		created, err := p.kube.RbacV1().ClusterRoles().Create(ctx, obj, metav1.CreateOptions{})
		return created, err
	})
}

func (p *Provisioner) createServiceAccount(ctx context.Context) (resources.Ref, error) {
	ns := p.cluster.Namespace
	obj := resources.ServiceAccount(ns)
	return p.create(ctx, resources.KindServiceAccount, serviceAccountsResource, ns, obj.Name, func(ctx context.Context) (metav1.Object, error) {
		created, err := p.kube.CoreV1().ServiceAccounts(ns).Create(ctx, obj, metav1.CreateOptions{})
		return created, err
	})
}

func (p *Provisioner) createClusterRoleBinding(ctx context.Context) (resources.Ref, error) {
	obj := resources.ClusterRoleBinding(p.cluster.Namespace)
	return p.create(ctx, resources.KindClusterRoleBinding, clusterRoleBindingsResource, "", obj.Name, func(ctx context.Context) (metav1.Object, error) {
		created, err := p.kube.RbacV1().ClusterRoleBindings().Create(ctx, obj, metav1.CreateOptions{})
		return created, err
	})
}

func (p *Provisioner) createOperatorDeployment(ctx context.Context) (resources.Ref, error) {
	ns := p.cluster.Namespace
	obj := resources.OperatorDeployment(ns, p.operator)
	return p.create(ctx, resources.KindDeployment, deploymentsResource, ns, obj.Name, func(ctx context.Context) (metav1.Object, error) {
		created, err := p.kube.AppsV1().Deployments(ns).Create(ctx, obj, metav1.CreateOptions{})
		return created, err
	})
}

// create runs one typed create call and returns a reference to the created object.
func (p *Provisioner) create(ctx context.Context, kind resources.Kind, gvr schema.GroupVersionResource, namespace, name string,
	fn func(ctx context.Context) (metav1.Object, error)) (resources.Ref, error) {
	ref := resources.Ref{
		Kind:      kind,
		Resource:  gvr,
		Namespace: namespace,
		Name:      name,
	}

	start := p.now()
	var obj metav1.Object
	err := p.wait(ctx)
	if err == nil {
		obj, err = fn(ctx)
	}
	if err := p.track(OpCreate, kind, name, start, err); err != nil {
		return ref, err
	}
	ref.UID = obj.GetUID()
	return ref, nil
}

// ignoreNotFound returns nil if the error is "not found", otherwise returns the error.
// Used to make resource deletion idempotent.
func ignoreNotFound(err error) error {
	if apierrors.IsNotFound(err) {
		return nil
	}
	return err
}
