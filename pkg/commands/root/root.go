// Package root assembles cascadectl's top-level cobra command.
package root

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/term"

	"github.com/cascadeconf/cascade/pkg/cascadectx"
	"github.com/cascadeconf/cascade/pkg/commands/flags"
	loadcmd "github.com/cascadeconf/cascade/pkg/commands/load"
	"github.com/cascadeconf/cascade/pkg/commands/validate"
)

// New builds the cascadectl root command.
func New() *cobra.Command {
	v := cascadectx.NewViper()

	cmd := &cobra.Command{
		Use:           "cascadectl",
		Short:         "Preprocess and inspect cascade-flavored YAML configuration",
		Long:          `cascadectl resolves variable substitution, includes, secrets and package merging in a cascade YAML document and prints or validates the result.`,
		SilenceErrors: false,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := cascadectx.ContextWithViper(cmd.Context(), v)
			flags.BindFlags(cmd, v)
			setupLogging(v)
			ctx = slogctx.NewCtx(ctx, slog.Default())
			cmd.SetContext(ctx)
		},
	}

	flags.RootFlags().Register(cmd.PersistentFlags(), false)

	cmd.AddCommand(loadcmd.New())
	cmd.AddCommand(validate.New())

	return cmd
}

func setupLogging(v *viper.Viper) {
	verbosity := v.GetInt("log-level")
	debugMode := v.GetBool("debug")
	logFormat := v.GetString("log-format")

	level := new(slog.LevelVar)
	level.Set(slog.LevelError - slog.Level(verbosity*4))

	handlerOpts := &slog.HandlerOptions{
		AddSource: debugMode,
		Level:     level,
	}

	useJSON := logFormat == "json" || (logFormat == "auto" && !term.IsTerminal(int(os.Stdout.Fd())))

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))
}
