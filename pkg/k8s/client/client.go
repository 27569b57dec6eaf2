package client

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/defaults"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/k8s/customobjects"
)

// Clients bundles the API clients the provisioner needs for one cluster.
type Clients struct {
	// Kube serves core, RBAC and apps objects.
	Kube kubernetes.Interface
	// CustomObjects serves the mongodb.com custom resources.
	CustomObjects customobjects.Interface
	// Config is the rest configuration all clients were built from.
	Config *rest.Config
}

// BuildClients creates the clients for the given kubeconfig file and context.
//
// When kubeconfig is empty the configuration is discovered from:
//  1. KUBECONFIG environment variable
//  2. ~/.kube/config (if it exists)
//  3. In-cluster configuration (service account)
//
// An empty kubeContext selects the kubeconfig's current context.
func BuildClients(kubeconfig, kubeContext string) (*Clients, error) {
	config, err := BuildRestConfig(kubeconfig, kubeContext)
	if err != nil {
		return nil, err
	}

	kube, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	custom, err := customobjects.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom objects client: %w", err)
	}

	return &Clients{
		Kube:          kube,
		CustomObjects: custom,
		Config:        config,
	}, nil
}

// BuildRestConfig resolves the rest configuration for kubeconfig and kubeContext.
func BuildRestConfig(kubeconfig, kubeContext string) (*rest.Config, error) {
	if ResolveKubeconfigPath(kubeconfig) == "" {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to build kube config: no kubeconfig found and not running in a cluster: %w", err)
		}
		config.Timeout = defaults.KubernetesRequestTimeout
		return config, nil
	}

	// default rules handle KUBECONFIG path lists
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	rules.ExplicitPath = kubeconfig
	overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}

	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config: %w", err)
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.KubernetesRequestTimeout
	}
	return config, nil
}

// ResolveKubeconfigPath applies the discovery order to an explicit path.
// It returns "" when only in-cluster configuration is left.
func ResolveKubeconfigPath(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}

	if env := os.Getenv(clientcmd.RecommendedConfigPathEnvVar); env != "" {
		return env
	}

	path := filepath.Join(homedir.HomeDir(), clientcmd.RecommendedHomeDir, clientcmd.RecommendedFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return ""
	}
	return path
}
