package main

import (
	"github.com/spf13/cobra"

	"github.com/meigma/filepack"
)

func (a *app) runCat(cmd *cobra.Command, args []string) error {
	return a.view(args[0], func(r *filepack.Reader) error {
		data, err := r.Get(args[1])
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	})
}
