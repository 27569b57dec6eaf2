package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/provisioner"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

func createCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a MongoDB resource",
		ArgsUsage: "<standalone|replicaset|shardedcluster>",
		Description: `Creates a single MongoDB custom resource in the configured namespace. The
resource references Secret my-credentials and ConfigMap my-project, which
must exist for the operator to reconcile it.

# Examples

  mdbprov create standalone --name my-standalone --mongo-version 4.0.0
  mdbprov create replicaset --name my-replica-set --members 3
  mdbprov create shardedcluster --name my-sharded-cluster --shards 2 --mongos 2`,
		Commands: []*cli.Command{
			createStandaloneCmd(),
			createReplicaSetCmd(),
			createShardedClusterCmd(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				if _, err := resources.ParseTargetType(cmd.Args().First()); err != nil {
					return err
				}
			}
			return fmt.Errorf("a deployment type is required, supported values: %v", resources.SupportedTargetTypes())
		},
	}
}

func createStandaloneCmd() *cli.Command {
	return &cli.Command{
		Name:  string(resources.TargetStandalone),
		Usage: "Create a standalone mongod",
		Flags: []cli.Flag{
			nameFlag("name of the standalone resource"),
			mongoVersionFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return createResource(ctx, cmd, resources.Standalone{})
		},
	}
}

func createReplicaSetCmd() *cli.Command {
	return &cli.Command{
		Name:  string(resources.TargetReplicaSet),
		Usage: "Create a replica set",
		Flags: []cli.Flag{
			nameFlag("name of the replica set resource"),
			mongoVersionFlag(),
			&cli.UintFlag{
				Name:  "members",
				Usage: "number of replica set members",
				Value: resources.DefaultReplicaSetMembers,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			members := uint(cmd.Uint("members"))
			if members == 0 {
				return fmt.Errorf("--members must be at least 1")
			}
			return createResource(ctx, cmd, resources.ReplicaSet{Members: members})
		},
	}
}

func createShardedClusterCmd() *cli.Command {
	return &cli.Command{
		Name:  string(resources.TargetShardedCluster),
		Usage: "Create a sharded cluster",
		Flags: []cli.Flag{
			nameFlag("name of the sharded cluster resource"),
			mongoVersionFlag(),
			&cli.UintFlag{
				Name:     "shards",
				Usage:    "number of shards",
				Required: true,
			},
			&cli.UintFlag{
				Name:     "mongos",
				Usage:    "number of mongos routers",
				Required: true,
			},
			&cli.UintFlag{
				Name:  "mongods-per-shard",
				Usage: "number of mongod processes per shard",
				Value: resources.DefaultMongodsPerShard,
			},
			&cli.UintFlag{
				Name:  "config-servers",
				Usage: "number of config server replica set members",
				Value: resources.DefaultConfigServerCount,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			target := resources.ShardedCluster{
				ShardCount:        uint(cmd.Uint("shards")),
				MongosCount:       uint(cmd.Uint("mongos")),
				MongodsPerShard:   uint(cmd.Uint("mongods-per-shard")),
				ConfigServerCount: uint(cmd.Uint("config-servers")),
			}
			if target.ShardCount == 0 || target.MongosCount == 0 {
				return fmt.Errorf("--shards and --mongos must be at least 1")
			}
			return createResource(ctx, cmd, target)
		},
	}
}

func createResource(ctx context.Context, cmd *cli.Command, target resources.DeploymentTarget) error {
	ctx, cancel := withTimeout(ctx, cmd)
	defer cancel()

	p, cfg, err := newProvisioner(cmd)
	if err != nil {
		return err
	}

	report := p.Run(ctx, provisioner.Plan{
		Resources: []provisioner.CustomResource{{
			Name:    cmd.String(flagName),
			Version: mongoVersion(cmd, cfg),
			Target:  target,
		}},
	})
	if err := writeOutput(ctx, cmd, p.Kube(), report); err != nil {
		return err
	}
	return finishReport(cmd, report)
}
