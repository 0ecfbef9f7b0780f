// Command terasort sorts record files with cooperating workers.
//
//	terasort gen --records 1000000 --output in.dat
//	terasort local --workers 8 --input in.dat --output out.dat
//	terasort run --rank 0 --peers host0:7000,host1:7000 --input in.dat --output out.dat
//	terasort validate --input in.dat --output out.dat
//
// Every flag can also be set in a config file (--config) or through the
// environment as TERASORT_<FLAG>, with dashes replaced by underscores.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/terasort"
	"github.com/hupe1980/terasort/codec"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "terasort",
		Short:         "Distributed sort of fixed-width record files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, json or toml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("codec", codec.Default.Name(), "encoding of reports and summaries: go-json or json")

	root.AddCommand(
		newRunCmd(v),
		newLocalCmd(v),
		newGenCmd(v),
		newValidateCmd(v),
	)
	return root
}

func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix("TERASORT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return nil
}

func newLogger(v *viper.Viper) (*terasort.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", v.GetString("log-level"))
	}
	switch v.GetString("log-format") {
	case "json":
		return terasort.NewJSONLogger(level), nil
	case "text", "":
		return terasort.NewTextLogger(level), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", v.GetString("log-format"))
	}
}

func outputCodec(v *viper.Viper) (codec.Codec, error) {
	c, ok := codec.ByName(v.GetString("codec"))
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", v.GetString("codec"))
	}
	return c, nil
}
