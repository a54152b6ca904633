package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meigma/filepack"
	"github.com/meigma/filepack/codec"
)

func (a *app) runPack(cmd *cobra.Command, args []string) error {
	sig, err := a.signature()
	if err != nil {
		return err
	}
	mode := filepack.ModeWrite
	if a.excl {
		mode = filepack.ModeExclusive
	}

	archive, files := args[0], args[1:]
	err = filepack.Build(archive, mode, sig, func(w *filepack.Writer) error {
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			if err := w.Add(filepath.Base(file), data, a.level, a.typeTag); err != nil {
				return err
			}
		}
		return nil
	},
		filepack.WithMethod(codec.Method(a.method)),
		filepack.WithVersion(a.version),
		filepack.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "packed %d blocks into %s\n", len(files), archive)
	return nil
}
