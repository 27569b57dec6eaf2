package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/provisioner"
)

func provisionCmd() *cli.Command {
	return &cli.Command{
		Name:                  "provision",
		EnableShellCompletion: true,
		Usage:                 "Run the full provisioning sequence",
		Description: `Runs the complete sequence against the configured namespace:

  1. ClusterRole, ServiceAccount, ClusterRoleBinding and Deployment of the operator
  2. Secret my-credentials and ConfigMap my-project
  3. MongoDB resources my-standalone, my-replica-set (3 members) and
     my-sharded-cluster (2 shards, 3 mongods per shard, 2 mongos, 3 config servers)
  4. With --delete, deletion of the three MongoDB resources

Every step is attempted even if an earlier one failed. The run report is
written to --output in --format.

# Examples

  mdbprov provision --config mdbprov.yaml
  mdbprov provision -c mdbprov.yaml --delete --format table
  mdbprov provision -c mdbprov.yaml -o cm://mongodb/mdbprov-report`,
		Flags: []cli.Flag{
			mongoVersionFlag(),
			&cli.BoolFlag{
				Name:  "delete",
				Usage: "delete the MongoDB resources after creating them",
			},
			&cli.BoolFlag{
				Name:  "skip-operator",
				Usage: "do not deploy the operator",
			},
			&cli.BoolFlag{
				Name:  "skip-credentials",
				Usage: "do not create the credentials Secret and project ConfigMap",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := withTimeout(ctx, cmd)
			defer cancel()

			p, cfg, err := newProvisioner(cmd)
			if err != nil {
				return err
			}

			plan := provisioner.SamplePlan(mongoVersion(cmd, cfg), cmd.Bool("delete"))
			plan.Operator = !cmd.Bool("skip-operator")
			plan.Credentials = !cmd.Bool("skip-credentials")

			slog.Info("provisioning",
				"namespace", p.Namespace(),
				"flavor", p.Flavor(),
				"resources", len(plan.Resources),
				"delete", plan.DeleteAfter)

			report := p.Run(ctx, plan)
			if err := writeOutput(ctx, cmd, p.Kube(), report); err != nil {
				return err
			}
			return finishReport(cmd, report)
		},
	}
}
