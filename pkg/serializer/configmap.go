package serializer

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/defaults"
)

// ConfigMapWriter stores serialized output in a ConfigMap, creating or replacing it.
type ConfigMapWriter struct {
	kube      kubernetes.Interface
	format    Format
	namespace string
	name      string
}

// NewConfigMapWriter returns a writer for ConfigMap namespace/name in the cluster kube talks to.
func NewConfigMapWriter(kube kubernetes.Interface, format Format, namespace, name string) *ConfigMapWriter {
	if format.IsUnknown() {
		format = FormatJSON
	}
	return &ConfigMapWriter{
		kube:      kube,
		format:    format,
		namespace: namespace,
		name:      name,
	}
}

// DataKey returns the ConfigMap data key the output is stored under.
func (w *ConfigMapWriter) DataKey() string {
	return ConfigMapDataKeyPrefix + string(w.format)
}

// Serialize implements Serializer.
func (w *ConfigMapWriter) Serialize(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to write ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}

	b, err := Marshal(w.format, data)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	cms := w.kube.CoreV1().ConfigMaps(w.namespace)
	existing, err := cms.Get(ctx, w.name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		cm := &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{
				Name:      w.name,
				Namespace: w.namespace,
				Labels: map[string]string{
					"app.kubernetes.io/managed-by": "mdbprov",
				},
			},
			Data: map[string]string{w.DataKey(): string(b)},
		}
		if _, err := cms.Create(ctx, cm, metav1.CreateOptions{}); err != nil {
			return fmt.Errorf("failed to create ConfigMap %s/%s: %w", w.namespace, w.name, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}

	if existing.Data == nil {
		existing.Data = map[string]string{}
	}
	existing.Data[w.DataKey()] = string(b)
	if _, err := cms.Update(ctx, existing, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}
	return nil
}

// parseConfigMapURI splits cm://namespace/name.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	rest := strings.TrimPrefix(uri, ConfigMapURIScheme)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI %q, expected %snamespace/name", uri, ConfigMapURIScheme)
	}
	return parts[0], parts[1], nil
}
