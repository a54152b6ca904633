package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/filepack/codec"
)

func (a *app) runDetect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), codec.Default().Detect(data))
	return nil
}
