package provisioner

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/k8s/customobjects"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/logging"
)

const testNamespace = "mongodb"

var testCluster = ClusterContext{
	Namespace: testNamespace,
	Credentials: Credentials{
		APIUser: "a@b.com",
		APIKey:  "k1",
	},
	Project: Project{
		ProjectID: "my-project-id",
		BaseURL:   "https://my-ops-cloud-manager-url",
	},
}

type deleteCall struct {
	gvr       schema.GroupVersionResource
	namespace string
	name      string
	opts      customobjects.DeleteOptions
}

// fakeCustomObjects records calls and returns canned responses.
type fakeCustomObjects struct {
	created    []*unstructured.Unstructured
	createdGVR []schema.GroupVersionResource
	createErr  error

	deleted    []deleteCall
	deleteResp map[string]any
	deleteErr  error

	getObj *unstructured.Unstructured
	getErr error
}

func (f *fakeCustomObjects) Create(_ context.Context, gvr schema.GroupVersionResource, _ string, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, obj)
	f.createdGVR = append(f.createdGVR, gvr)
	out := obj.DeepCopy()
	out.SetUID(types.UID("uid-" + obj.GetName()))
	return out, nil
}

func (f *fakeCustomObjects) Get(_ context.Context, _ schema.GroupVersionResource, _, _ string) (*unstructured.Unstructured, error) {
	return f.getObj, f.getErr
}

func (f *fakeCustomObjects) Delete(_ context.Context, gvr schema.GroupVersionResource, namespace, name string, opts customobjects.DeleteOptions) (map[string]any, error) {
	f.deleted = append(f.deleted, deleteCall{gvr: gvr, namespace: namespace, name: name, opts: opts})
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	if f.deleteResp == nil {
		return map[string]any{"kind": "Status", "status": "Success"}, nil
	}
	return f.deleteResp, nil
}

func newTestProvisioner(t *testing.T, opts ...Option) (*Provisioner, *fake.Clientset, *fakeCustomObjects, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	clientset := fake.NewClientset()
	custom := &fakeCustomObjects{}
	logger := logging.NewLogger(&logs, "mdbprov-test", "v0.0.0", slog.LevelDebug, true)
	p := New(clientset, custom, testCluster, append([]Option{WithLogger(logger)}, opts...)...)
	return p, clientset, custom, &logs
}
