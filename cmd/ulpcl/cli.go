package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ulpcl",
		Short:         "Compile localization packs into binary message catalogs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&inputFiles, "input", nil, `compile the specified file (absolute path)`)
	flags.StringArrayVar(&inputDirs, "input-dir", nil, `compile files from the specified directory (absolute path)`)
	flags.StringVar(&outputDir, "output-dir", "", `set the output directory for compiled files (absolute path)`)
	flags.StringVar(&threads, "threads", "", `specify multithreading during compilation: "disable", "auto" or 1, 2, 4, 8`)
	flags.StringVar(&errorModel, "error-model", "", `define how errors and warnings impact compilation: "soft", "strict" or "default"`)
	flags.BoolVarP(&discardEmpty, "discard-empty", "d", false, "discard messages that have no values")
	flags.BoolVarP(&generateSymbols, "symbol-file", "s", false, "generate a symbol file for each input file")
	flags.BoolVarP(&verbose, "verbose", "V", false, "enable detailed logging")
	flags.BoolVarP(&showVersion, "version", "v", false, "print the ULPCL version and exit")

	return cmd
}
