package provisioner

import (
	"context"
	"errors"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

// CreateSecret creates the credentials Secret holding the Ops Manager API user and key.
func (p *Provisioner) CreateSecret(ctx context.Context) (resources.Ref, error) {
	ns := p.cluster.Namespace
	obj := resources.CredentialsSecret(ns, p.cluster.Credentials.APIUser, p.cluster.Credentials.APIKey)
	return p.create(ctx, resources.KindSecret, secretsResource, ns, obj.Name, func(ctx context.Context) (metav1.Object, error) {
		created, err := p.kube.CoreV1().Secrets(ns).Create(ctx, obj, metav1.CreateOptions{})
		return created, err
	})
}

// CreateConfigMap creates the project ConfigMap holding the Ops Manager project ID and base URL.
func (p *Provisioner) CreateConfigMap(ctx context.Context) (resources.Ref, error) {
	ns := p.cluster.Namespace
	obj := resources.ProjectConfigMap(ns, p.cluster.Project.ProjectID, p.cluster.Project.BaseURL)
	return p.create(ctx, resources.KindConfigMap, configMapsResource, ns, obj.Name, func(ctx context.Context) (metav1.Object, error) {
		created, err := p.kube.CoreV1().ConfigMaps(ns).Create(ctx, obj, metav1.CreateOptions{})
		return created, err
	})
}

// RemoveCredentials deletes the credentials Secret and the project ConfigMap.
// Objects that are already gone are skipped.
func (p *Provisioner) RemoveCredentials(ctx context.Context) error {
	ns := p.cluster.Namespace
	var errs []error

	start := p.now()
	err := p.wait(ctx)
	if err == nil {
		err = ignoreNotFound(p.kube.CoreV1().Secrets(ns).Delete(ctx, resources.CredentialsSecretName, metav1.DeleteOptions{}))
	}
	if err := p.track(OpDelete, resources.KindSecret, resources.CredentialsSecretName, start, err); err != nil {
		errs = append(errs, err)
	}

	start = p.now()
	err = p.wait(ctx)
	if err == nil {
		err = ignoreNotFound(p.kube.CoreV1().ConfigMaps(ns).Delete(ctx, resources.ProjectConfigMapName, metav1.DeleteOptions{}))
	}
	if err := p.track(OpDelete, resources.KindConfigMap, resources.ProjectConfigMapName, start, err); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
