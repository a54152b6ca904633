package main

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/filepack"
)

func (a *app) runExtract(cmd *cobra.Command, args []string) error {
	dir := args[1]
	return a.view(args[0], func(r *filepack.Reader) error {
		for d := range r.All() {
			if !filepath.IsLocal(d.Name) {
				return errors.Newf("block %q is not a local file name", d.Name)
			}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(max(a.workers, 1))
		for d := range r.All() {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				data, err := r.Get(d.Name)
				if err != nil {
					return err
				}
				dst := filepath.Join(dir, d.Name)
				if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
					return err
				}
				if err := os.WriteFile(dst, data, 0o644); err != nil {
					return err
				}
				a.logger.Debug("block extracted", zap.String("name", d.Name), zap.String("path", dst))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "extracted %d blocks to %s\n", r.Len(), dir)
		return nil
	})
}
