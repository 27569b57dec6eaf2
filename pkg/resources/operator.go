package resources

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"
)

const (
	// OperatorName names the operator ClusterRole, ServiceAccount,
	// ClusterRoleBinding and Deployment.
	OperatorName = "mongodb-enterprise-operator"

	DefaultOperatorImage   = "quay.io/mongodb/mongodb-enterprise-operator:latest"
	DefaultDatabaseImage   = "quay.io/mongodb/mongodb-enterprise-database:latest"
	DefaultImagePullPolicy = corev1.PullAlways

	operatorEnvironment = "local"
	operatorReplicas    = 1
)

// OperatorLabels select the operator pods.
var OperatorLabels = map[string]string{
	"app": OperatorName,
}

// OperatorRules are the permissions granted to the operator ServiceAccount.
var OperatorRules = []rbacv1.PolicyRule{
	{
		APIGroups: []string{""},
		Resources: []string{"configmaps", "secrets", "services"},
		Verbs:     []string{"get", "list", "create", "update", "delete"},
	},
	{
		APIGroups: []string{"apps"},
		Resources: []string{"statefulsets"},
		Verbs:     []string{"*"},
	},
	{
		APIGroups: []string{"apiextensions.k8s.io"},
		Resources: []string{"customresourcedefinitions"},
		Verbs:     []string{"get", "list", "watch", "create", "delete"},
	},
	{
		APIGroups: []string{Group},
		Resources: []string{"*"},
		Verbs:     []string{"*"},
	},
}

// OperatorOptions tunes the operator Deployment.
type OperatorOptions struct {
	Image           string
	DatabaseImage   string
	ImagePullPolicy corev1.PullPolicy
	// ImagePullSecrets is passed through to the operator as a comma separated list.
	ImagePullSecrets string
}

// DefaultOperatorOptions returns the images and pull policy of the published operator.
func DefaultOperatorOptions() OperatorOptions {
	return OperatorOptions{
		Image:           DefaultOperatorImage,
		DatabaseImage:   DefaultDatabaseImage,
		ImagePullPolicy: DefaultImagePullPolicy,
	}
}

func (o OperatorOptions) withDefaults() OperatorOptions {
	d := DefaultOperatorOptions()
	if o.Image == "" {
		o.Image = d.Image
	}
	if o.DatabaseImage == "" {
		o.DatabaseImage = d.DatabaseImage
	}
	if o.ImagePullPolicy == "" {
		o.ImagePullPolicy = d.ImagePullPolicy
	}
	return o
}

// OperatorEnv returns the environment of the operator container.
func OperatorEnv(opts OperatorOptions) []corev1.EnvVar {
	opts = opts.withDefaults()
	return []corev1.EnvVar{
		{Name: "OPERATOR_ENV", Value: operatorEnvironment},
		{Name: "MONGODB_ENTERPRISE_DATABASE_IMAGE", Value: opts.DatabaseImage},
		{Name: "IMAGE_PULL_POLICY", Value: string(opts.ImagePullPolicy)},
		{Name: "IMAGE_PULL_SECRETS", Value: opts.ImagePullSecrets},
	}
}

// ClusterRole builds the operator ClusterRole.
func ClusterRole() *rbacv1.ClusterRole {
	rules := make([]rbacv1.PolicyRule, len(OperatorRules))
	for i := range OperatorRules {
		OperatorRules[i].DeepCopyInto(&rules[i])
	}

	return &rbacv1.ClusterRole{
		TypeMeta: metav1.TypeMeta{
			APIVersion: rbacv1.SchemeGroupVersion.String(),
			Kind:       KindClusterRole.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: OperatorName,
		},
		Rules: rules,
	}
}

// ServiceAccount builds the operator ServiceAccount.
func ServiceAccount(namespace string) *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{
			APIVersion: corev1.SchemeGroupVersion.String(),
			Kind:       KindServiceAccount.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      OperatorName,
			Namespace: namespace,
		},
	}
}

// ClusterRoleBinding binds the operator ClusterRole to its ServiceAccount in namespace.
func ClusterRoleBinding(namespace string) *rbacv1.ClusterRoleBinding {
	return &rbacv1.ClusterRoleBinding{
		TypeMeta: metav1.TypeMeta{
			APIVersion: rbacv1.SchemeGroupVersion.String(),
			Kind:       KindClusterRoleBinding.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: OperatorName,
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     KindClusterRole.String(),
			Name:     OperatorName,
		},
		Subjects: []rbacv1.Subject{
			{
				Kind:      rbacv1.ServiceAccountKind,
				Name:      OperatorName,
				Namespace: namespace,
			},
		},
	}
}

// OperatorDeployment builds the single replica operator Deployment.
func OperatorDeployment(namespace string, opts OperatorOptions) *appsv1.Deployment {
	opts = opts.withDefaults()

	labels := make(map[string]string, len(OperatorLabels))
	for k, v := range OperatorLabels {
		labels[k] = v
	}

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: appsv1.SchemeGroupVersion.String(),
			Kind:       KindDeployment.String(),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      OperatorName,
			Namespace: namespace,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To[int32](operatorReplicas),
			Selector: &metav1.LabelSelector{
				MatchLabels: labels,
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels,
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: OperatorName,
					Containers: []corev1.Container{
						{
							Name:            OperatorName,
							Image:           opts.Image,
							ImagePullPolicy: opts.ImagePullPolicy,
							Env:             OperatorEnv(opts),
						},
					},
				},
			},
		},
	}
}
