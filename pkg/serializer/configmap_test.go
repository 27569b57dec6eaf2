package serializer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestConfigMapWriter_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	clientset := fake.NewClientset()
	w := NewConfigMapWriter(clientset, FormatJSON, "mongodb", "mdbprov-report")

	require.NoError(t, w.Serialize(ctx, testSteps[:1]))

	cm, err := clientset.CoreV1().ConfigMaps("mongodb").Get(ctx, "mdbprov-report", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "mdbprov", cm.Labels["app.kubernetes.io/managed-by"])

	var got []testStep
	require.NoError(t, json.Unmarshal([]byte(cm.Data["report.json"]), &got))
	assert.Equal(t, testSteps[:1], got)

	require.NoError(t, w.Serialize(ctx, testSteps))

	cm, err = clientset.CoreV1().ConfigMaps("mongodb").Get(ctx, "mdbprov-report", metav1.GetOptions{})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(cm.Data["report.json"]), &got))
	assert.Equal(t, testSteps, got)
}

func TestConfigMapWriter_KeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	clientset := fake.NewClientset(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "mdbprov-report", Namespace: "mongodb"},
		Data:       map[string]string{"report.json": "{}"},
	})

	w := NewConfigMapWriter(clientset, FormatYAML, "mongodb", "mdbprov-report")
	assert.Equal(t, "report.yaml", w.DataKey())
	require.NoError(t, w.Serialize(ctx, testSteps))

	cm, err := clientset.CoreV1().ConfigMaps("mongodb").Get(ctx, "mdbprov-report", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "{}", cm.Data["report.json"])
	assert.Contains(t, cm.Data["report.yaml"], "name: my-standalone")
}

func TestConfigMapWriter_EndedContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	clientset := fake.NewClientset()

	err := NewConfigMapWriter(clientset, FormatJSON, "mongodb", "mdbprov-report").Serialize(ctx, testSteps)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, clientset.Actions())
}

func TestParseConfigMapURI(t *testing.T) {
	ns, name, err := parseConfigMapURI("cm://mongodb/mdbprov-report")
	require.NoError(t, err)
	assert.Equal(t, "mongodb", ns)
	assert.Equal(t, "mdbprov-report", name)

	_, _, err = parseConfigMapURI("cm://a/b/c")
	assert.Error(t, err)
}
