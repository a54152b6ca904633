package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"

	"github.com/meigma/filepack"
)

func (a *app) runList(cmd *cobra.Command, args []string) error {
	return a.view(args[0], func(r *filepack.Reader) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: signature %s, version %d, %d blocks\n",
			r.Path(), r.Signature(), r.Version(), r.Len())

		tbl := tablewriter.NewWriter(out)
		header := []string{"Name", "Type", "Compression", "Offset", "Stored"}
		if a.digest {
			header = append(header, "Size", "Digest")
		}
		tbl.SetHeader(header)

		var total uint64
		for d := range r.All() {
			compression := d.Compression
			if compression == "" {
				compression = "-"
			}
			row := []string{
				d.Name,
				d.Type,
				compression,
				strconv.FormatUint(d.Offset, 10),
				humanize.IBytes(d.Size),
			}
			if a.digest {
				data, err := r.Get(d.Name)
				if err != nil {
					return err
				}
				row = append(row, humanize.IBytes(uint64(len(data))), digest.FromBytes(data).String())
			}
			tbl.Append(row)
			total += d.Size
		}
		tbl.Render()
		fmt.Fprintf(out, "total stored: %s\n", humanize.IBytes(total))
		return nil
	})
}
