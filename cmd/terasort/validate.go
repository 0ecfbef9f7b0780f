package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/terasort/blobstore"
	"github.com/hupe1980/terasort/record"
	"github.com/hupe1980/terasort/validate"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that an output is a sorted permutation of its input",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format := record.Format{KeyLen: v.GetInt("key-len"), ValueLen: v.GetInt("value-len")}
			store := blobstore.NewLocalStore("")

			out, err := validate.File(ctx, store, v.GetString("output"), format)
			if err != nil {
				return err
			}
			summary := map[string]validate.Summary{"output": out}

			var cmpErr error
			if in := v.GetString("input"); in != "" {
				inSum, err := validate.File(ctx, store, in, format)
				if err != nil {
					return err
				}
				summary["input"] = inSum
				cmpErr = validate.Compare(inSum, out)
			} else if !out.Sorted() {
				cmpErr = fmt.Errorf("%w: first at record %d", validate.ErrUnsorted, out.FirstUnsorted)
			}

			c, err := outputCodec(v)
			if err != nil {
				return err
			}
			data, err := c.MarshalIndent(summary)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return cmpErr
		},
	}
	fs := cmd.Flags()
	fs.String("input", "", "input file; when set, also check the output is a permutation of it")
	fs.String("output", "", "file to validate")
	fs.Int("key-len", record.TeraGen.KeyLen, "key width in bytes")
	fs.Int("value-len", record.TeraGen.ValueLen, "value width in bytes")
	return cmd
}
