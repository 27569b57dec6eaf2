package provisioner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	k8stesting "k8s.io/client-go/testing"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

func TestDeployOperator(t *testing.T) {
	p, clientset, _, _ := newTestProvisioner(t)
	ctx := context.Background()

	require.NoError(t, p.DeployOperator(ctx))

	cr, err := clientset.RbacV1().ClusterRoles().Get(ctx, resources.OperatorName, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Len(t, cr.Rules, 4)

	sa, err := clientset.CoreV1().ServiceAccounts(testNamespace).Get(ctx, resources.OperatorName, metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, testNamespace, sa.Namespace)

	crb, err := clientset.RbacV1().ClusterRoleBindings().Get(ctx, resources.OperatorName, metav1.GetOptions{})
	require.NoError(t, err)
	require.Len(t, crb.Subjects, 1)
	assert.Equal(t, testNamespace, crb.Subjects[0].Namespace)
	assert.Equal(t, resources.OperatorName, crb.RoleRef.Name)

	deploy, err := clientset.AppsV1().Deployments(testNamespace).Get(ctx, resources.OperatorName, metav1.GetOptions{})
	require.NoError(t, err)
	require.Len(t, deploy.Spec.Template.Spec.Containers, 1)
	assert.Equal(t, resources.DefaultOperatorImage, deploy.Spec.Template.Spec.Containers[0].Image)
}

func TestDeployOperator_CreationOrder(t *testing.T) {
	p, clientset, _, _ := newTestProvisioner(t)

	require.NoError(t, p.DeployOperator(context.Background()))

	var order []string
	for _, a := range clientset.Actions() {
		if a.GetVerb() == "create" {
			order = append(order, a.GetResource().Resource)
		}
	}
	assert.Equal(t, []string{"clusterroles", "serviceaccounts", "clusterrolebindings", "deployments"}, order)
}

func TestDeployOperator_ContinuesAfterFailure(t *testing.T) {
	p, clientset, _, logs := newTestProvisioner(t)
	ctx := context.Background()

	clientset.PrependReactor("create", "serviceaccounts", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewForbidden(schema.GroupResource{Resource: "serviceaccounts"},
			resources.OperatorName, errors.New("denied"))
	})

	err := p.DeployOperator(ctx)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, resources.KindServiceAccount, apiErr.Kind)
	assert.Equal(t, OpCreate, apiErr.Operation)
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.True(t, apierrors.IsForbidden(err))

	// the third and fourth sub-steps were still attempted
	_, err = clientset.RbacV1().ClusterRoleBindings().Get(ctx, resources.OperatorName, metav1.GetOptions{})
	assert.NoError(t, err)
	_, err = clientset.AppsV1().Deployments(testNamespace).Get(ctx, resources.OperatorName, metav1.GetOptions{})
	assert.NoError(t, err)

	assert.Contains(t, logs.String(), "api request failed")
	assert.Contains(t, logs.String(), `"status":"error"`)
	assert.Contains(t, logs.String(), `"status":"success"`)
}

func TestDeployOperator_AlreadyExists(t *testing.T) {
	p, _, _, _ := newTestProvisioner(t)
	ctx := context.Background()

	require.NoError(t, p.DeployOperator(ctx))

	err := p.DeployOperator(ctx)
	require.Error(t, err)
	assert.True(t, apierrors.IsAlreadyExists(err))
}

func TestDeployOperator_CustomImages(t *testing.T) {
	p, clientset, _, _ := newTestProvisioner(t, WithOperatorOptions(resources.OperatorOptions{
		Image:           "registry.local/operator:1.0",
		ImagePullPolicy: corev1.PullIfNotPresent,
	}))
	ctx := context.Background()

	require.NoError(t, p.DeployOperator(ctx))

	deploy, err := clientset.AppsV1().Deployments(testNamespace).Get(ctx, resources.OperatorName, metav1.GetOptions{})
	require.NoError(t, err)
	c := deploy.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "registry.local/operator:1.0", c.Image)
	assert.Equal(t, corev1.PullIfNotPresent, c.ImagePullPolicy)
}

func TestRemoveOperator(t *testing.T) {
	p, clientset, _, _ := newTestProvisioner(t)
	ctx := context.Background()

	require.NoError(t, p.DeployOperator(ctx))
	require.NoError(t, p.RemoveOperator(ctx))

	_, err := clientset.AppsV1().Deployments(testNamespace).Get(ctx, resources.OperatorName, metav1.GetOptions{})
	assert.True(t, apierrors.IsNotFound(err))
	_, err = clientset.RbacV1().ClusterRoles().Get(ctx, resources.OperatorName, metav1.GetOptions{})
	assert.True(t, apierrors.IsNotFound(err))

	// removing again is a no-op
	assert.NoError(t, p.RemoveOperator(ctx))
}

func TestRemoveOperator_JoinsErrors(t *testing.T) {
	p, clientset, _, _ := newTestProvisioner(t)
	ctx := context.Background()
	require.NoError(t, p.DeployOperator(ctx))

	clientset.PrependReactor("delete", "*", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewInternalError(errors.New("boom"))
	})

	err := p.RemoveOperator(ctx)
	require.Error(t, err)

	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 4)
}
