package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meigma/filepack"
	"github.com/meigma/filepack/mesh"
)

// app holds the command tree and the flags shared by all commands.
type app struct {
	Root    *cobra.Command
	List    *cobra.Command
	Cat     *cobra.Command
	Extract *cobra.Command
	Pack    *cobra.Command
	Detect  *cobra.Command

	sig       string
	verbose   bool
	logger    *zap.Logger
	newLogger func(...zap.Option) (*zap.Logger, error)

	digest  bool
	workers int
	level   int
	method  string
	version uint16
	excl    bool
	typeTag string
}

func newApp() *app {
	a := &app{logger: zap.NewNop(), newLogger: zap.NewDevelopment}

	a.Root = &cobra.Command{
		Use:           "packtool",
		Short:         "filepack archive tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !a.verbose {
				return nil
			}
			logger, err := a.newLogger()
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	a.Root.PersistentFlags().StringVar(&a.sig, "sig", mesh.Signature.String(), "6-byte archive signature")
	a.Root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log archive events to stderr")

	a.List = &cobra.Command{
		Use:   "ls <archive>",
		Short: "list the blocks of an archive",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runList,
	}
	a.List.Flags().BoolVar(&a.digest, "digest", false, "print the sha256 digest of each decompressed block")

	a.Cat = &cobra.Command{
		Use:   "cat <archive> <name>",
		Short: "write a decompressed block to stdout",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runCat,
	}

	a.Extract = &cobra.Command{
		Use:   "extract <archive> <dir>",
		Short: "write every block to a file in dir",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runExtract,
	}
	a.Extract.Flags().IntVar(&a.workers, "workers", 4, "number of blocks decompressed in parallel")

	a.Pack = &cobra.Command{
		Use:   "pack <archive> <file>...",
		Short: "create an archive holding one block per file",
		Long: `
Create an archive holding one block per file. Blocks are named after the
base name of each file.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runPack,
	}
	a.Pack.Flags().IntVar(&a.level, "level", filepack.DefaultLevel, "compression level, 0 stores blocks raw")
	a.Pack.Flags().StringVar(&a.method, "method", "brotli", "block compression method")
	a.Pack.Flags().Uint16Var(&a.version, "table-version", filepack.Version1, "descriptor table version (0 or 1)")
	a.Pack.Flags().BoolVar(&a.excl, "exclusive", false, "fail if the archive already exists")
	a.Pack.Flags().StringVar(&a.typeTag, "type", "file", "type tag recorded for each block")

	a.Detect = &cobra.Command{
		Use:   "detect <file>",
		Short: "print the compression method detected from a file's magic bytes",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runDetect,
	}

	a.Root.AddCommand(a.List, a.Cat, a.Extract, a.Pack, a.Detect)
	return a
}

// execute runs the command tree and flushes the logger on every exit path.
// The Sync error is dropped since stderr often cannot be synced.
func (a *app) execute() error {
	defer func() { _ = a.logger.Sync() }()
	return a.Root.Execute()
}

func (a *app) signature() (filepack.Signature, error) {
	return filepack.ParseSignature(a.sig)
}

func (a *app) view(path string, fn func(*filepack.Reader) error) error {
	sig, err := a.signature()
	if err != nil {
		return err
	}
	return filepack.View(path, sig, fn, filepack.WithReaderLogger(a.logger))
}
