package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"k8s.io/client-go/kubernetes"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/config"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/k8s/client"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/logging"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/provisioner"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/serializer"
)

// buildClients creates the cluster clients; replaced in tests.
var buildClients = client.BuildClients

// parseOutputFormat extracts and validates the output format from CLI flags.
// Returns the validated format or an error if the format is unknown.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String(flagFormat))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: yaml, json, table", outFormat)
	}
	return outFormat, nil
}

// writeOutput serializes data to the --output destination in the --format encoding.
// A cm:// destination is written through kube, the client of the provisioned cluster.
// The write outlives --timeout and cancellation of ctx; a ConfigMap write has its own timeout.
func writeOutput(ctx context.Context, cmd *cli.Command, kube kubernetes.Interface, data any) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)

	ser, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String(flagOutput), kube)
	if err != nil {
		return err
	}
	if closer, ok := ser.(serializer.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", logging.Err(err))
			}
		}()
	}

	return ser.Serialize(ctx, data)
}

// withTimeout applies --timeout to ctx.
func withTimeout(ctx context.Context, cmd *cli.Command) (context.Context, context.CancelFunc) {
	if d := cmd.Duration(flagTimeout); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// loadConfig reads the configuration named by --config.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}
	slog.Debug("configuration loaded", "config", cfg)
	return cfg, nil
}

// newProvisioner loads the configuration and builds a Provisioner for the selected cluster.
func newProvisioner(cmd *cli.Command) (*provisioner.Provisioner, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	kubeconfig := cmd.String(flagKubeconfig)
	if kubeconfig == "" {
		kubeconfig = cfg.Kubernetes.Kubeconfig
	}
	kubeContext := cmd.String(flagContext)
	if kubeContext == "" {
		kubeContext = cfg.Kubernetes.Context
	}

	clients, err := buildClients(kubeconfig, kubeContext)
	if err != nil {
		return nil, nil, err
	}

	p := provisioner.New(clients.Kube, clients.CustomObjects, cfg.ClusterContext(),
		provisioner.WithOperatorOptions(cfg.OperatorOptions()),
		provisioner.WithMongoDBOptions(cfg.MongoDBOptions()),
		provisioner.WithRateLimiter(cfg.RateLimiter()),
		provisioner.WithLogger(slog.Default()),
	)
	return p, cfg, nil
}

// mongoVersion returns --mongo-version, falling back to the configured version.
func mongoVersion(cmd *cli.Command, cfg *config.Config) string {
	if v := cmd.String(flagMongoVersion); v != "" {
		return v
	}
	if cfg.MongoDB.Version != "" {
		return cfg.MongoDB.Version
	}
	return config.DefaultMongoDBVersion
}

// resolvePlural returns --plural, or the plural of --type under flavor.
func resolvePlural(cmd *cli.Command, flavor resources.Flavor) (string, error) {
	plural := cmd.String(flagPlural)
	typ := cmd.String(flagType)

	switch {
	case plural != "" && typ != "":
		return "", fmt.Errorf("--%s and --%s are mutually exclusive", flagPlural, flagType)
	case plural != "":
		if err := resources.ValidatePlural(plural); err != nil {
			return "", err
		}
		return plural, nil
	case typ != "":
		t, err := resources.ParseTargetType(typ)
		if err != nil {
			return "", err
		}
		return flavor.Plural(targetForType(t)), nil
	default:
		return "", fmt.Errorf("one of --%s or --%s is required", flagPlural, flagType)
	}
}

// targetForType returns a default-shaped target of type t.
func targetForType(t resources.TargetType) resources.DeploymentTarget {
	switch t {
	case resources.TargetReplicaSet:
		return resources.ReplicaSet{Members: resources.DefaultReplicaSetMembers}
	case resources.TargetShardedCluster:
		return resources.ShardedCluster{
			MongodsPerShard:   resources.DefaultMongodsPerShard,
			ConfigServerCount: resources.DefaultConfigServerCount,
		}
	default:
		return resources.Standalone{}
	}
}

// finishStep logs a failed single-step command and applies --fail-on-error.
func finishStep(cmd *cli.Command, op, kind, resourceName string, err error) error {
	if err == nil {
		return nil
	}
	slog.Error("step failed",
		logging.Operation(op),
		logging.Kind(kind),
		logging.ResourceName(resourceName),
		logging.Err(err))
	if cmd.Bool(flagFailOnError) {
		return fmt.Errorf("%w: %w", errStepsFailed, err)
	}
	return nil
}

// finishReport logs the failed steps of a run and applies --fail-on-error.
func finishReport(cmd *cli.Command, report *provisioner.Report) error {
	for _, s := range report.Failed() {
		slog.Error("step failed",
			logging.RunID(report.RunID),
			logging.Operation(s.Operation),
			logging.Kind(s.Kind.String()),
			logging.ResourceName(s.Name),
			slog.String(logging.KeyError, s.Error))
	}
	slog.Info("run complete", logging.RunID(report.RunID), "summary", report.Summary())

	if report.HasFailures() && cmd.Bool(flagFailOnError) {
		return fmt.Errorf("%w: %s", errStepsFailed, report.Summary())
	}
	return nil
}
