package provisioner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	k8stesting "k8s.io/client-go/testing"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

func TestInspect(t *testing.T) {
	p, _, custom, _ := newTestProvisioner(t)
	ctx := context.Background()

	require.NoError(t, p.DeployOperator(ctx))
	custom.getErr = apierrors.NewNotFound(schema.GroupResource{Group: resources.Group, Resource: "mongodbstandalones"}, "my-standalone")

	plan := Plan{
		Operator:    true,
		Credentials: true,
		Resources:   []CustomResource{{Name: "my-standalone", Target: resources.Standalone{}}},
	}
	inv, err := p.Inspect(ctx, plan)
	require.NoError(t, err)
	require.Len(t, inv.Objects, 7)
	assert.Equal(t, testNamespace, inv.Namespace)
	assert.Equal(t, KindInventory, inv.Kind)

	var order []string
	for _, o := range inv.Objects {
		order = append(order, o.Kind.String()+" "+o.Name)
		assert.Empty(t, o.Error, o.Kind)
	}
	assert.Equal(t, []string{
		"ClusterRole mongodb-enterprise-operator",
		"ServiceAccount mongodb-enterprise-operator",
		"ClusterRoleBinding mongodb-enterprise-operator",
		"Deployment mongodb-enterprise-operator",
		"Secret my-credentials",
		"ConfigMap my-project",
		"MongoStandalone my-standalone",
	}, order)

	for _, o := range inv.Objects[:4] {
		assert.True(t, o.Present, o.Kind)
	}

	missing := inv.Missing()
	require.Len(t, missing, 3)
	assert.Equal(t, resources.KindSecret, missing[0].Kind)
	assert.Equal(t, resources.KindConfigMap, missing[1].Kind)
	assert.Equal(t, resources.KindMongoStandalone, missing[2].Kind)
}

func TestInspect_ReadFailure(t *testing.T) {
	p, clientset, _, _ := newTestProvisioner(t)
	clientset.PrependReactor("get", "secrets", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewForbidden(schema.GroupResource{Resource: "secrets"}, "my-credentials", errors.New("rbac"))
	})

	inv, err := p.Inspect(context.Background(), Plan{Credentials: true})
	require.NoError(t, err)
	require.Len(t, inv.Objects, 2)

	assert.False(t, inv.Objects[0].Present)
	assert.Contains(t, inv.Objects[0].Error, "forbidden")
	assert.Empty(t, inv.Objects[1].Error)

	// a failed read is not reported as missing
	require.Len(t, inv.Missing(), 1)
	assert.Equal(t, resources.KindConfigMap, inv.Missing()[0].Kind)
}

func TestInspect_Canceled(t *testing.T) {
	p, _, _, _ := newTestProvisioner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Inspect(ctx, SamplePlan("4.0.0", false))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInventory_Table(t *testing.T) {
	created := time.Now().Add(-time.Minute)
	inv := &Inventory{Objects: []ObjectState{
		{Kind: resources.KindSecret, Name: "my-credentials", Namespace: "mongodb", Present: true, CreatedAt: &created},
		{Kind: resources.KindClusterRole, Name: "mongodb-enterprise-operator"},
	}}

	assert.Len(t, inv.TableHeader(), 6)
	rows := inv.TableRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "true", rows[0][3])
	assert.NotEmpty(t, rows[0][4])
	assert.Equal(t, "false", rows[1][3])
	assert.Empty(t, rows[1][4])
}

func TestRateLimiter_RefusesCalls(t *testing.T) {
	// zero burst admits nothing
	p, clientset, _, _ := newTestProvisioner(t, WithRateLimiter(rate.NewLimiter(0, 0)))

	err := p.DeployOperator(context.Background())
	require.Error(t, err)
	assert.Empty(t, clientset.Actions(), "no request may reach the API server")
}

func TestRateLimiter_Paces(t *testing.T) {
	p, _, _, _ := newTestProvisioner(t, WithRateLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	report := p.Run(ctx, Plan{Operator: true})
	require.Len(t, report.Steps, 4)
	assert.Equal(t, "success", report.Steps[0].Status)
	for _, s := range report.Steps[1:] {
		assert.Equal(t, "error", s.Status, s.Kind)
	}

	_, err := p.kube.RbacV1().ClusterRoles().Get(context.Background(), resources.OperatorName, metav1.GetOptions{})
	assert.NoError(t, err)
}
