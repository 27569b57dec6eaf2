package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/mongodb/mongodb-kube-provisioner/pkg/config"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/serializer"
)

func TestResolvePlural(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		flavor    resources.Flavor
		want      string
		wantError bool
		errMsg    string
	}{
		{
			name:   "plural",
			args:   []string{"test", "--plural", "mongodbreplicasets"},
			flavor: resources.FlavorLegacy,
			want:   "mongodbreplicasets",
		},
		{
			name:   "type with legacy flavor",
			args:   []string{"test", "--type", "shardedcluster"},
			flavor: resources.FlavorLegacy,
			want:   "mongodbshardedclusters",
		},
		{
			name:   "type with unified flavor",
			args:   []string{"test", "--type", "standalone"},
			flavor: resources.FlavorUnified,
			want:   "mongodb",
		},
		{
			name:      "both",
			args:      []string{"test", "--plural", "mongodbstandalones", "--type", "standalone"},
			flavor:    resources.FlavorLegacy,
			wantError: true,
			errMsg:    "mutually exclusive",
		},
		{
			name:      "neither",
			args:      []string{"test"},
			flavor:    resources.FlavorLegacy,
			wantError: true,
			errMsg:    "is required",
		},
		{
			name:      "typo in type",
			args:      []string{"test", "--type", "replicaste"},
			flavor:    resources.FlavorLegacy,
			wantError: true,
			errMsg:    "replicaset",
		},
		{
			name:      "unknown plural",
			args:      []string{"test", "--plural", "mongodbstandalone"},
			flavor:    resources.FlavorLegacy,
			wantError: true,
			errMsg:    "mongodbstandalones",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			var capturedErr error

			testCmd := &cli.Command{
				Name:  "test",
				Flags: []cli.Flag{pluralFlag(), typeFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					got, capturedErr = resolvePlural(cmd, tt.flavor)
					return nil
				},
			}

			if err := testCmd.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("unexpected run error: %v", err)
			}

			if tt.wantError {
				if capturedErr == nil {
					t.Fatal("expected error but got nil")
				}
				if !strings.Contains(capturedErr.Error(), tt.errMsg) {
					t.Errorf("error = %v, want error containing %v", capturedErr, tt.errMsg)
				}
				return
			}

			if capturedErr != nil {
				t.Fatalf("unexpected error: %v", capturedErr)
			}
			if got != tt.want {
				t.Errorf("resolvePlural() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		format    string
		want      serializer.Format
		wantError bool
	}{
		{format: "yaml", want: serializer.FormatYAML},
		{format: "json", want: serializer.FormatJSON},
		{format: "table", want: serializer.FormatTable},
		{format: "xml", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var got serializer.Format
			var capturedErr error

			testCmd := &cli.Command{
				Name:  "test",
				Flags: []cli.Flag{&cli.StringFlag{Name: flagFormat}},
				Action: func(_ context.Context, cmd *cli.Command) error {
					got, capturedErr = parseOutputFormat(cmd)
					return nil
				},
			}
			if err := testCmd.Run(context.Background(), []string{"test", "--format", tt.format}); err != nil {
				t.Fatalf("unexpected run error: %v", err)
			}

			if tt.wantError {
				if capturedErr == nil {
					t.Error("expected error for unknown format")
				}
				return
			}
			if capturedErr != nil {
				t.Fatalf("unexpected error: %v", capturedErr)
			}
			if got != tt.want {
				t.Errorf("parseOutputFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMongoVersion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		cfg  string
		want string
	}{
		{name: "flag wins", args: []string{"test", "--mongo-version", "4.2.1"}, cfg: "4.0.5", want: "4.2.1"},
		{name: "config", args: []string{"test"}, cfg: "4.0.5", want: "4.0.5"},
		{name: "default", args: []string{"test"}, want: config.DefaultMongoDBVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.MongoDB.Version = tt.cfg

			var got string
			testCmd := &cli.Command{
				Name:  "test",
				Flags: []cli.Flag{mongoVersionFlag()},
				Action: func(_ context.Context, cmd *cli.Command) error {
					got = mongoVersion(cmd, cfg)
					return nil
				},
			}
			if err := testCmd.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("unexpected run error: %v", err)
			}
			if got != tt.want {
				t.Errorf("mongoVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTargetForType(t *testing.T) {
	for _, typ := range resources.SupportedTargetTypes() {
		target := targetForType(resources.TargetType(typ))
		if string(target.Type()) != typ {
			t.Errorf("targetForType(%q).Type() = %q", typ, target.Type())
		}
	}
}
