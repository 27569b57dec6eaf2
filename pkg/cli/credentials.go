package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/provisioner"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

func credentialsCmd() *cli.Command {
	return &cli.Command{
		Name:  "credentials",
		Usage: "Create or remove the Ops Manager credentials Secret and project ConfigMap",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create Secret my-credentials and ConfigMap my-project",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ctx, cancel := withTimeout(ctx, cmd)
					defer cancel()

					p, _, err := newProvisioner(cmd)
					if err != nil {
						return err
					}

					report := p.Run(ctx, provisioner.Plan{Credentials: true})
					if err := writeOutput(ctx, cmd, p.Kube(), report); err != nil {
						return err
					}
					return finishReport(cmd, report)
				},
			},
			{
				Name:  "remove",
				Usage: "Delete Secret my-credentials and ConfigMap my-project",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ctx, cancel := withTimeout(ctx, cmd)
					defer cancel()

					p, _, err := newProvisioner(cmd)
					if err != nil {
						return err
					}

					err = p.RemoveCredentials(ctx)
					return finishStep(cmd, provisioner.OpDelete, resources.KindSecret.String(), resources.CredentialsSecretName, err)
				},
			},
		},
	}
}
