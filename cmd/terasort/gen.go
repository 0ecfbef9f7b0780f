package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/terasort/record"
	"github.com/hupe1980/terasort/testutil"
)

func newGenCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a file of random records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := v.GetString("output")
			if out == "" {
				return fmt.Errorf("--output is required")
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			bw := bufio.NewWriter(f)
			format := record.Format{KeyLen: v.GetInt("key-len"), ValueLen: v.GetInt("value-len")}
			if err := format.Validate(); err != nil {
				_ = f.Close()
				return err
			}
			n, err := testutil.Generate(bw, v.GetInt64("records"), format, v.GetInt64("seed"))
			if err != nil {
				_ = f.Close()
				return err
			}
			if err := bw.Flush(); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", n, out)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.Int64("records", 1000, "number of records")
	fs.Int64("seed", 1, "random seed")
	fs.String("output", "", "output file")
	fs.Int("key-len", record.TeraGen.KeyLen, "key width in bytes")
	fs.Int("value-len", record.TeraGen.ValueLen, "value width in bytes")
	return cmd
}
