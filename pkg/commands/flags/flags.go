// Package flags defines the flag set shared by cascadectl's subcommands,
// following the teacher's FlagValues/BuildFlag registration pattern scaled
// down to what load/validate actually need.
package flags

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FlagValue describes a single flag: its kind, default and usage string.
type FlagValue struct {
	Shorthand    string
	Kind         string
	DefaultValue any
	Usage        string
}

// FlagValues is a set of named flag definitions.
type FlagValues map[string]FlagValue

// Register adds every flag in the set to flagSet.
func (f FlagValues) Register(flagSet *pflag.FlagSet, sort bool) {
	for name, flag := range f {
		flag.build(flagSet, name)
	}
	flagSet.SortFlags = sort
}

func (f *FlagValue) build(flagSet *pflag.FlagSet, name string) {
	switch f.Kind {
	case "bool":
		def, _ := f.DefaultValue.(bool)
		flagSet.BoolP(name, f.Shorthand, def, f.Usage)
	case "count":
		flagSet.CountP(name, f.Shorthand, f.Usage)
	case "string":
		def, _ := f.DefaultValue.(string)
		flagSet.StringP(name, f.Shorthand, def, f.Usage)
	case "stringSlice":
		def, _ := f.DefaultValue.([]string)
		flagSet.StringSliceP(name, f.Shorthand, def, f.Usage)
	default:
		slog.Warn("unrecognized flag kind", "flag", name, "kind", f.Kind)
	}
}

// BindFlags binds every flag of cmd (local and inherited) to v, so values
// are reachable via v.GetString/GetBool/... regardless of how they were set.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(fl *pflag.Flag) {
		_ = v.BindPFlag(fl.Name, fl)
	})
}

// RootFlags returns the persistent flags shared by every subcommand.
func RootFlags() FlagValues {
	return FlagValues{
		"log-format": {Kind: "string", DefaultValue: "auto", Usage: "log format (auto|json|text)"},
		"debug":      {Kind: "bool", Usage: "include source location in logs"},
		"log-level":  {Shorthand: "v", Kind: "count", Usage: "log level (-v=warn, -vv=info, -vvv=debug)"},
	}
}

// LoadFlags returns the flags shared by the load and validate subcommands.
func LoadFlags() FlagValues {
	return FlagValues{
		"strict": {Kind: "bool", Usage: "promote structural warnings to a hard failure"},
		"output": {Shorthand: "o", Kind: "string", DefaultValue: "yaml", Usage: "output format (yaml|json)"},
	}
}
