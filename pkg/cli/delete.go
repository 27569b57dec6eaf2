package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/provisioner"
)

// deleteResult is the output of the delete command.
type deleteResult struct {
	Name      string `json:"name" yaml:"name"`
	Plural    string `json:"plural" yaml:"plural"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Status    string `json:"status" yaml:"status"`
	Succeeded bool   `json:"succeeded" yaml:"succeeded"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a MongoDB resource by name",
		Description: `Deletes a MongoDB custom resource with background propagation and a 56 second
grace period. The resource is selected by --name and either --plural or --type.

The reported status is "success" when the API server answered with status
Success, "unknown" when the response carried no status (the object is still
being finalized), and "error" otherwise.

# Examples

  mdbprov delete --name my-standalone --plural mongodbstandalones
  mdbprov delete --name my-replica-set --type replicaset`,
		Flags: []cli.Flag{
			nameFlag("name of the resource to delete"),
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

			plural, err := resolvePlural(cmd, p.Flavor())
			if err != nil {
				return err
			}

			name := cmd.String(flagName)
			status, delErr := p.DeleteCustomResource(ctx, name, plural)
			res := deleteResult{
				Name:      name,
				Plural:    plural,
				Namespace: p.Namespace(),
				Status:    status.String(),
				Succeeded: status.Succeeded(),
			}
			if delErr != nil {
				res.Error = delErr.Error()
			}

			if err := writeOutput(ctx, cmd, p.Kube(), res); err != nil {
				return err
			}
			return finishStep(cmd, provisioner.OpDelete, plural, name, delErr)
		},
	}
}
