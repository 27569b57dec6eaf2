package resources

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// CredentialsSecretName is referenced by every MongoDB resource as spec.credentials.
	CredentialsSecretName = "my-credentials"
	// ProjectConfigMapName is referenced by every MongoDB resource as spec.project.
	ProjectConfigMapName = "my-project"

	// SecretTypeFromLiteral mirrors `kubectl create secret generic --from-literal`.
	SecretTypeFromLiteral corev1.SecretType = "from-literal"

	SecretKeyUser         = "user"
	SecretKeyPublicAPIKey = "publicApiKey"

	ConfigMapKeyProjectID = "projectId"
	ConfigMapKeyBaseURL   = "baseUrl"
)

// CredentialsSecret builds the Ops Manager API credentials Secret.
// Secret data is stored raw and base64 encoded on the wire, so decoding the
// submitted fields yields exactly apiUser and apiKey.
func CredentialsSecret(namespace, apiUser, apiKey string) *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			APIVersion: corev1.SchemeGroupVersion.String(),
			Kind:       KindSecret.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      CredentialsSecretName,
			Namespace: namespace,
		},
		Type: SecretTypeFromLiteral,
		Data: map[string][]byte{
			SecretKeyUser:         []byte(apiUser),
			SecretKeyPublicAPIKey: []byte(apiKey),
		},
	}
}

// ProjectConfigMap builds the Ops Manager project ConfigMap.
func ProjectConfigMap(namespace, projectID, baseURL string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		TypeMeta: metav1.TypeMeta{
			APIVersion: corev1.SchemeGroupVersion.String(),
			Kind:       KindConfigMap.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      ProjectConfigMapName,
			Namespace: namespace,
		},
		Data: map[string]string{
			ConfigMapKeyProjectID: projectID,
			ConfigMapKeyBaseURL:   baseURL,
		},
	}
}
