package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/config"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/serializer"
)

// Environment variables read by global flags.
const (
	envConfig      = "MDB_CONFIG"
	envMetricsFile = "MDB_METRICS_FILE"
)

// Flag names shared between commands.
const (
	flagConfig       = "config"
	flagKubeconfig   = "kubeconfig"
	flagContext      = "context"
	flagDebug        = "debug"
	flagLogJSON      = "log-json"
	flagOutput       = "output"
	flagFormat       = "format"
	flagTimeout      = "timeout"
	flagFailOnError  = "fail-on-error"
	flagMetricsFile  = "metrics-file"
	flagName         = "name"
	flagMongoVersion = "mongo-version"
	flagPlural       = "plural"
	flagType         = "type"
)

// globalFlags returns new instances of the root flags; flag values are stateful.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "path to the provisioner configuration file (YAML)",
			Sources: cli.EnvVars(envConfig),
		},
		&cli.StringFlag{
			Name:    flagKubeconfig,
			Aliases: []string{"k"},
			Usage:   "path to the kubeconfig file (default: KUBECONFIG, ~/.kube/config, then in-cluster)",
		},
		&cli.StringFlag{
			Name:  flagContext,
			Usage: "kubeconfig context to use (default: current context)",
		},
		&cli.BoolFlag{
			Name:  flagDebug,
			Usage: "enable debug logging",
		},
		&cli.BoolFlag{
			Name:  flagLogJSON,
			Usage: "output logs in JSON format",
		},
		&cli.StringFlag{
			Name:    flagOutput,
			Aliases: []string{"o"},
			Usage:   "output destination: file path, cm://namespace/name, or - for stdout",
			Value:   serializer.StdoutURI,
		},
		&cli.StringFlag{
			Name:    flagFormat,
			Aliases: []string{"t"},
			Usage:   fmt.Sprintf("output format %v", serializer.SupportedFormats()),
			Value:   string(serializer.FormatYAML),
		},
		&cli.DurationFlag{
			Name:  flagTimeout,
			Usage: "overall timeout for the command (0 means no timeout)",
		},
		&cli.BoolFlag{
			Name:  flagFailOnError,
			Usage: "exit with a non-zero status when any cluster API call failed",
		},
		&cli.StringFlag{
			Name:    flagMetricsFile,
			Usage:   "write prometheus metrics to this file (textfile collector format) on exit",
			Sources: cli.EnvVars(envMetricsFile),
		},
	}
}

func mongoVersionFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  flagMongoVersion,
		Usage: fmt.Sprintf("MongoDB version to deploy (default: mongodb.version from config, or %s)", config.DefaultMongoDBVersion),
	}
}

func nameFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     flagName,
		Aliases:  []string{"n"},
		Usage:    usage,
		Required: true,
	}
}

func pluralFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  flagPlural,
		Usage: fmt.Sprintf("resource plural %v", resources.KnownPlurals()),
	}
}

func typeFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  flagType,
		Usage: fmt.Sprintf("deployment type %v, resolved to a plural with the configured flavor", resources.SupportedTargetTypes()),
	}
}
