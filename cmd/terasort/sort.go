package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/terasort"
	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/cluster/grpcnet"
	"github.com/hupe1980/terasort/record"
	"github.com/hupe1980/terasort/resource"
)

func addSortFlags(fs *pflag.FlagSet) {
	fs.String("input", "", "input record file or blob name")
	fs.String("output", "", "output record file")
	fs.Int64("samples", terasort.DefaultSampleSize, "global number of pivot samples")
	fs.Int("key-len", record.TeraGen.KeyLen, "key width in bytes")
	fs.Int("value-len", record.TeraGen.ValueLen, "value width in bytes")
	fs.Int("scan-window", record.DefaultWindow, "records read per request while loading")
	fs.Duration("token-lease", 0, "bound on waiting for the output token (0 waits forever)")
	fs.Duration("timeout", 0, "bound on the whole run (0 waits forever)")
	fs.Int64("memory-limit", 0, "memory budget for loaded and received records in bytes (0 is unlimited)")
	fs.Int64("max-inflight-puts", 16, "concurrent exchange sends per worker")
	fs.Int64("io-limit", 0, "output write limit in bytes per second (0 is unlimited)")
	fs.String("report", "", "write the run report as JSON to this file")
	addStoreFlags(fs)
}

func sortConfig(v *viper.Viper) terasort.Config {
	return terasort.Config{
		InputPath:  v.GetString("input"),
		OutputPath: v.GetString("output"),
		SampleSize: v.GetInt64("samples"),
		Format: record.Format{
			KeyLen:   v.GetInt("key-len"),
			ValueLen: v.GetInt("value-len"),
		},
	}
}

func sortOptions(ctx context.Context, v *viper.Viper, rc *resource.Controller) ([]terasort.Option, error) {
	logger, err := newLogger(v)
	if err != nil {
		return nil, err
	}
	opts := []terasort.Option{
		terasort.WithLogger(logger),
		terasort.WithResources(rc),
		terasort.WithTokenLease(v.GetDuration("token-lease")),
		terasort.WithScanWindow(v.GetInt("scan-window")),
	}

	stores, err := openStores(ctx, v)
	if err != nil {
		return nil, err
	}
	if stores.input != nil {
		opts = append(opts, terasort.WithBlobStore(stores.input))
	}
	if stores.publisher != nil {
		opts = append(opts, terasort.WithPublisher(stores.publisher))
	}
	return opts, nil
}

func newResources(v *viper.Viper) *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   v.GetInt64("memory-limit"),
		MaxInFlightPuts:    v.GetInt64("max-inflight-puts"),
		IOLimitBytesPerSec: v.GetInt64("io-limit"),
	})
}

func withTimeout(ctx context.Context, v *viper.Viper) (context.Context, context.CancelFunc) {
	if d := v.GetDuration("timeout"); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

func writeReport(v *viper.Viper, report any) error {
	path := v.GetString("report")
	if path == "" {
		return nil
	}
	c, err := outputCodec(v)
	if err != nil {
		return err
	}
	data, err := c.MarshalIndent(report)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one rank, connected to its peers over gRPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd.Context(), v)
			defer cancel()

			tr, err := grpcnet.Listen(grpcnet.Config{
				Rank:       v.GetInt("rank"),
				Peers:      v.GetStringSlice("peers"),
				ListenAddr: v.GetString("listen"),
			})
			if err != nil {
				return err
			}
			defer tr.Close()

			rc := newResources(v)
			opts, err := sortOptions(ctx, v, rc)
			if err != nil {
				return err
			}
			s, err := terasort.New(sortConfig(v), cluster.New(tr, cluster.WithResources(rc)), opts...)
			if err != nil {
				return err
			}
			report, err := s.Run(ctx)
			if err != nil {
				return err
			}
			return writeReport(v, report)
		},
	}
	fs := cmd.Flags()
	fs.Int("rank", 0, "this worker's rank")
	fs.StringSlice("peers", nil, "every rank's address, in rank order")
	fs.String("listen", "", "listen address (defaults to this rank's peer address)")
	addSortFlags(fs)
	return cmd
}

func newLocalCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local",
		Short: "Run every rank in this process",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd.Context(), v)
			defer cancel()

			opts, err := sortOptions(ctx, v, newResources(v))
			if err != nil {
				return err
			}
			reports, err := terasort.RunLocal(ctx, sortConfig(v), v.GetInt("workers"), opts...)
			if err != nil {
				return err
			}
			totals := terasort.Summarize(reports)
			fmt.Fprintf(cmd.OutOrStdout(), "sorted %d records with %d workers\n", totals.Written, len(reports))
			return writeReport(v, reports)
		},
	}
	fs := cmd.Flags()
	fs.Int("workers", 4, "number of ranks")
	addSortFlags(fs)
	return cmd
}
