// Package validate implements the "validate" subcommand: load a cascade
// YAML document in strict mode and report structural problems without
// printing the resolved tree.
package validate

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	"github.com/cascadeconf/cascade/pkg/cascade"
	"github.com/cascadeconf/cascade/pkg/cascade/secretbackend"
	"github.com/cascadeconf/cascade/pkg/cascadectx"
	"github.com/cascadeconf/cascade/pkg/commands/flags"
)

// New builds the "validate" subcommand.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate <file>",
		Short:   "Validate a cascade YAML document for structural problems",
		Long:    `Loads the document in strict mode: any structural warning (missing include, unresolved secret, malformed variables/packages block) is reported and fails the command.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: setup,
		RunE:    run,
	}

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
	result, err := cascade.Load(cmd.Context(), args[0], cascade.Options{
		Strict: true,
		Backends: secretbackend.NewRegistry(
			&secretbackend.Vault{},
			&secretbackend.AWSSecretsManager{},
			&secretbackend.AWSSystemsManager{},
			&secretbackend.K8sSecret{},
			&secretbackend.K8sConfigMap{},
		),
	})
	if len(result.Warnings) == 0 && err == nil {
		fmt.Printf("%s: valid\n", args[0])
		return nil
	}

	for _, w := range result.Warnings {
		fmt.Printf("%s: %s\n", args[0], w.Error())
	}
	if err != nil {
		fmt.Printf("%s: %v\n", args[0], err)
	}
	return fmt.Errorf("validation failed: %d warning(s)", len(result.Warnings))
}
