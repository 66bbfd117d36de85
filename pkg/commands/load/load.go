// Package load implements the "load" subcommand: preprocess a cascade YAML
// document and print the resolved tree.
package load

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"
	"gopkg.in/yaml.v3"

	"github.com/cascadeconf/cascade/pkg/cascade"
	"github.com/cascadeconf/cascade/pkg/cascade/secretbackend"
	"github.com/cascadeconf/cascade/pkg/cascadectx"
	"github.com/cascadeconf/cascade/pkg/commands/flags"
)

// New builds the "load" subcommand.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "load <file>",
		Short:   "Preprocess a cascade YAML document and print the resolved tree",
		Args:    cobra.ExactArgs(1),
		PreRunE: setup,
		RunE:    run,
	}

	flags.LoadFlags().Register(cmd.Flags(), false)

	return cmd
}

func setup(cmd *cobra.Command, _ []string) error {
	v := cascadectx.Viper(cmd.Context())
	flags.BindFlags(cmd, v)

	log := slog.Default()
	cmd.SetContext(slogctx.NewCtx(cmd.Context(), log))
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	v := cascadectx.Viper(cmd.Context())

	result, err := cascade.Load(cmd.Context(), args[0], cascade.Options{
		Strict:   v.GetBool("strict"),
		Backends: defaultBackends(),
	})
	for _, w := range result.Warnings {
		cascadectx.Logger(cmd.Context()).Warn(w.Error())
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	switch v.GetString("output") {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Document)
	default:
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(result.Document)
	}
}

func defaultBackends() *secretbackend.Registry {
	return secretbackend.NewRegistry(
		&secretbackend.Vault{},
		&secretbackend.AWSSecretsManager{},
		&secretbackend.AWSSystemsManager{},
		&secretbackend.K8sSecret{},
		&secretbackend.K8sConfigMap{},
	)
}
