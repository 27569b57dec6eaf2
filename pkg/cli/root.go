package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/logging"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/provisioner"
)

const name = "mdbprov"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitCanceled = 2
)

// errStepsFailed is returned with --fail-on-error when a cluster API call failed.
var errStepsFailed = errors.New("one or more cluster API calls failed")

// Execute runs the CLI and exits the process.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().Run(ctx, os.Args)
	code := exitCode(ctx, err)
	if err != nil {
		slog.Error("command failed", logging.Err(err))
	}
	stop()
	os.Exit(code)
}

func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return exitOK
	case ctx.Err() != nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return exitCanceled
	default:
		return exitError
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Provision the MongoDB Enterprise operator and MongoDB resources on Kubernetes",
		Description: `Creates the MongoDB Enterprise operator RBAC objects and Deployment, the Ops Manager
credentials Secret and project ConfigMap, and MongoDB custom resources
(standalone, replica set, sharded cluster) in an existing namespace.

Every cluster API call is attempted once. Failures are logged and the command
continues with the next call; use --fail-on-error to exit non-zero on failures.

# Environment Variables

  MDB_CONFIG        Path to the configuration file
  MDB_NAMESPACE     Overrides kubernetes.namespace
  MDB_PROJECT_ID    Overrides ops_manager.project
  MDB_BASE_URL      Overrides ops_manager.base_url
  MDB_API_USER      Overrides ops_manager.api_user
  MDB_API_KEY       Overrides ops_manager.api_key
  MDB_PERSISTENT    Overrides mongodb.persistent
  LOG_LEVEL         Logging verbosity (debug, info, warn, error)
  KUBECONFIG        Path to kubeconfig file`,
		Flags:  globalFlags(),
		Before: setupLogging,
		After:  writeMetrics,
		Commands: []*cli.Command{
			provisionCmd(),
			operatorCmd(),
			credentialsCmd(),
			createCmd(),
			deleteCmd(),
			statusCmd(),
			versionCmd(),
		},
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := logging.ParseLevel(os.Getenv(logging.EnvLogLevel))
	if err != nil {
		return ctx, err
	}
	if cmd.Bool(flagDebug) {
		level = slog.LevelDebug
	}
	logging.SetDefaultLoggerWithLevel(name, version, level, cmd.Bool(flagLogJSON))
	return ctx, nil
}

func writeMetrics(_ context.Context, cmd *cli.Command) error {
	path := cmd.String(flagMetricsFile)
	if path == "" {
		return nil
	}
	if err := provisioner.WriteMetrics(path); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	slog.Debug("metrics written", "path", path)
	return nil
}
