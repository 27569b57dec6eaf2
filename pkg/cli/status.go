package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/provisioner"
)

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show MongoDB resources and operator objects as stored in the cluster",
		Description: `With --name, prints a single MongoDB resource as returned by the API server.
The resource is selected by --plural or --type.

Without --name, reads every object the provision command creates (operator
objects, credentials Secret, project ConfigMap and the sample resources) and
reports which of them exist.

# Examples

  mdbprov status --format table
  mdbprov status --name my-standalone --type standalone --format json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagName,
				Aliases: []string{"n"},
				Usage:   "name of the resource (default: inventory of all provisioned objects)",
			},
			pluralFlag(),
			typeFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := withTimeout(ctx, cmd)
			defer cancel()

			p, _, err := newProvisioner(cmd)
			if err != nil {
				return err
			}

			name := cmd.String(flagName)
			if name == "" {
				inv, err := p.Inspect(ctx, provisioner.SamplePlan("", false))
				if err != nil {
					return err
				}
				slog.Debug("inventory complete", "objects", len(inv.Objects), "missing", len(inv.Missing()))
				return writeOutput(ctx, cmd, p.Kube(), inv)
			}

			plural, err := resolvePlural(cmd, p.Flavor())
			if err != nil {
				return err
			}

			obj, err := p.GetCustomResource(ctx, name, plural)
			if err != nil {
				return err
			}
			return writeOutput(ctx, cmd, p.Kube(), obj.Object)
		},
	}
}
