// Package config loads the provisioner configuration file.
//
// The file is YAML:
//
//	kubernetes:
//	  namespace: mongodb
//	ops_manager:
//	  project: my-project-id
//	  base_url: https://my-ops-cloud-manager-url
//	  api_user: first.last@example.com
//	  api_key: my-public-api-key
//
// Optional sections tune the MongoDB resources (mongodb) and the operator
// Deployment (operator). Environment variables override file values, and the
// file is read exactly once per process.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/distribution/reference"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"

	mdberrors "github.com/mongodb/mongodb-kube-provisioner/pkg/errors"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/logging"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/provisioner"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

// Environment variable overrides.
const (
	EnvNamespace  = "MDB_NAMESPACE"
	EnvProjectID  = "MDB_PROJECT_ID"
	EnvBaseURL    = "MDB_BASE_URL"
	EnvAPIUser    = "MDB_API_USER"
	EnvAPIKey     = "MDB_API_KEY"
	EnvPersistent = "MDB_PERSISTENT"
)

// DefaultMongoDBVersion is deployed when neither flags nor config name a version.
const DefaultMongoDBVersion = "4.0.0"

// Config is the provisioner configuration.
type Config struct {
	Kubernetes KubernetesConfig `yaml:"kubernetes"`
	OpsManager OpsManagerConfig `yaml:"ops_manager"`
	MongoDB    MongoDBConfig    `yaml:"mongodb"`
	Operator   OperatorConfig   `yaml:"operator"`
}

// KubernetesConfig selects the cluster and namespace.
type KubernetesConfig struct {
	// Namespace must already exist in the cluster.
	Namespace  string `yaml:"namespace"`
	Kubeconfig string `yaml:"kubeconfig,omitempty"`
	Context    string `yaml:"context,omitempty"`
	// QPS paces provisioner API calls. Zero disables pacing.
	QPS   float64 `yaml:"qps,omitempty"`
	Burst int     `yaml:"burst,omitempty"`
}

// OpsManagerConfig holds the Ops Manager / Cloud Manager project and API credentials.
type OpsManagerConfig struct {
	Project string `yaml:"project"`
	BaseURL string `yaml:"base_url"`
	APIUser string `yaml:"api_user"`
	APIKey  string `yaml:"api_key"`
}

// MongoDBConfig holds settings shared by every MongoDB resource.
type MongoDBConfig struct {
	Version    string `yaml:"version,omitempty"`
	Persistent bool   `yaml:"persistent"`
	Flavor     string `yaml:"flavor,omitempty"`
}

// OperatorConfig overrides the operator images and pull settings.
type OperatorConfig struct {
	Image            string `yaml:"image,omitempty"`
	DatabaseImage    string `yaml:"database_image,omitempty"`
	ImagePullPolicy  string `yaml:"image_pull_policy,omitempty"`
	ImagePullSecrets string `yaml:"image_pull_secrets,omitempty"`
}

// DefaultConfig returns a configuration with every optional value set.
func DefaultConfig() *Config {
	return &Config{
		MongoDB: MongoDBConfig{
			Version: DefaultMongoDBVersion,
			Flavor:  string(resources.FlavorLegacy),
		},
		Operator: OperatorConfig{
			Image:           resources.DefaultOperatorImage,
			DatabaseImage:   resources.DefaultDatabaseImage,
			ImagePullPolicy: string(resources.DefaultImagePullPolicy),
		},
	}
}

// Load reads the configuration file at path, applies environment overrides and validates it.
// An empty path skips the file so configuration may come from the environment alone.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, mdberrors.WrapWithContext(mdberrors.ErrCodeInvalidRequest,
				"failed to read configuration file", err, map[string]any{"path": path})
		}
		if err := cfg.decode(bytes.NewReader(data)); err != nil {
			return nil, mdberrors.WrapWithContext(mdberrors.ErrCodeInvalidRequest,
				"failed to parse configuration file", err, map[string]any{"path": path})
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides values with environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvNamespace, &c.Kubernetes.Namespace},
		{EnvProjectID, &c.OpsManager.Project},
		{EnvBaseURL, &c.OpsManager.BaseURL},
		{EnvAPIUser, &c.OpsManager.APIUser},
		{EnvAPIKey, &c.OpsManager.APIKey},
	}
	for _, o := range overrides {
		if v, ok := lookup(o.key); ok && v != "" {
			*o.dst = v
		}
	}

	if v, ok := lookup(EnvPersistent); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return mdberrors.WrapWithContext(mdberrors.ErrCodeInvalidRequest,
				"invalid boolean in environment", err, map[string]any{"variable": EnvPersistent})
		}
		c.MongoDB.Persistent = b
	}
	return nil
}

// Validate checks that every required value is present and every enumerated value is known.
func (c *Config) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"kubernetes.namespace", c.Kubernetes.Namespace},
		{"ops_manager.project", c.OpsManager.Project},
		{"ops_manager.base_url", c.OpsManager.BaseURL},
		{"ops_manager.api_user", c.OpsManager.APIUser},
		{"ops_manager.api_key", c.OpsManager.APIKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return mdberrors.New(mdberrors.ErrCodeInvalidRequest,
			fmt.Sprintf("missing required configuration: %s", strings.Join(missing, ", ")))
	}

	if _, err := resources.ParseFlavor(c.MongoDB.Flavor); err != nil {
		return mdberrors.Wrap(mdberrors.ErrCodeInvalidRequest, "invalid mongodb.flavor", err)
	}

	if c.Kubernetes.QPS < 0 || c.Kubernetes.Burst < 0 {
		return mdberrors.New(mdberrors.ErrCodeInvalidRequest,
			"kubernetes.qps and kubernetes.burst must not be negative")
	}

	images := []struct {
		field string
		value string
	}{
		{"operator.image", c.Operator.Image},
		{"operator.database_image", c.Operator.DatabaseImage},
	}
	for _, img := range images {
		if img.value == "" {
			continue
		}
		if _, err := reference.ParseNormalizedNamed(img.value); err != nil {
			return mdberrors.WrapWithContext(mdberrors.ErrCodeInvalidRequest,
				"invalid "+img.field, err, map[string]any{"image": img.value})
		}
	}

	switch corev1.PullPolicy(c.Operator.ImagePullPolicy) {
	case "", corev1.PullAlways, corev1.PullIfNotPresent, corev1.PullNever:
	default:
		return mdberrors.New(mdberrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid operator.image_pull_policy %q, valid values are: Always, IfNotPresent, Never",
				c.Operator.ImagePullPolicy))
	}

	return nil
}

// ClusterContext returns the read-only provisioning context.
func (c *Config) ClusterContext() provisioner.ClusterContext {
	return provisioner.ClusterContext{
		Namespace: c.Kubernetes.Namespace,
		Credentials: provisioner.Credentials{
			APIUser: c.OpsManager.APIUser,
			APIKey:  c.OpsManager.APIKey,
		},
		Project: provisioner.Project{
			ProjectID: c.OpsManager.Project,
			BaseURL:   c.OpsManager.BaseURL,
		},
	}
}

// MongoDBOptions returns the settings applied to every MongoDB resource.
func (c *Config) MongoDBOptions() resources.MongoDBOptions {
	flavor, err := resources.ParseFlavor(c.MongoDB.Flavor)
	if err != nil {
		flavor = resources.FlavorLegacy
	}
	return resources.MongoDBOptions{
		Persistent: c.MongoDB.Persistent,
		Flavor:     flavor,
	}
}

// OperatorOptions returns the operator Deployment settings.
func (c *Config) OperatorOptions() resources.OperatorOptions {
	return resources.OperatorOptions{
		Image:            c.Operator.Image,
		DatabaseImage:    c.Operator.DatabaseImage,
		ImagePullPolicy:  corev1.PullPolicy(c.Operator.ImagePullPolicy),
		ImagePullSecrets: c.Operator.ImagePullSecrets,
	}
}

// RateLimiter returns the API call limiter for kubernetes.qps, or nil when pacing is disabled.
func (c *Config) RateLimiter() *rate.Limiter {
	if c.Kubernetes.QPS <= 0 {
		return nil
	}
	burst := c.Kubernetes.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(c.Kubernetes.QPS), burst)
}

// LogValue implements slog.LogValuer so the API key never reaches the logs.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("namespace", c.Kubernetes.Namespace),
		slog.String("project", c.OpsManager.Project),
		slog.String("base_url", c.OpsManager.BaseURL),
		slog.String("api_user", c.OpsManager.APIUser),
		slog.String("api_key", logging.MaskSecret(c.OpsManager.APIKey)),
		slog.String("mongodb_version", c.MongoDB.Version),
		slog.String("flavor", c.MongoDB.Flavor),
		slog.Bool("persistent", c.MongoDB.Persistent),
	)
}
