package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/provisioner"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

func operatorCmd() *cli.Command {
	return &cli.Command{
		Name:  "operator",
		Usage: "Deploy or remove the MongoDB Enterprise operator",
		Commands: []*cli.Command{
			{
				Name:  "deploy",
				Usage: "Create the operator ClusterRole, ServiceAccount, ClusterRoleBinding and Deployment",
				Description: `Creates the four operator objects in order. A failed object does not stop
the remaining ones. The image and pull policy come from the operator section
of the configuration file.`,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ctx, cancel := withTimeout(ctx, cmd)
					defer cancel()

					p, _, err := newProvisioner(cmd)
					if err != nil {
						return err
					}

					report := p.Run(ctx, provisioner.Plan{Operator: true})
					if err := writeOutput(ctx, cmd, p.Kube(), report); err != nil {
						return err
					}
					return finishReport(cmd, report)
				},
			},
			{
				Name:  "remove",
				Usage: "Delete the operator Deployment, ClusterRoleBinding, ServiceAccount and ClusterRole",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ctx, cancel := withTimeout(ctx, cmd)
					defer cancel()

					p, _, err := newProvisioner(cmd)
					if err != nil {
						return err
					}

					err = p.RemoveOperator(ctx)
					return finishStep(cmd, provisioner.OpDelete, resources.KindDeployment.String(), resources.OperatorName, err)
				},
			},
		},
	}
}
