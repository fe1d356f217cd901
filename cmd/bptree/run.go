package main

import (
	"github.com/spf13/cobra"

	"bptree"
	"bptree/internal/config"
	"bptree/internal/script"
)

var runCmd = &cobra.Command{
	Use:   "run <input>",
	Short: "Execute an instruction file",
	Long: `Execute an instruction file and write every Search result to the output file.

The first line must be Initialize(order). Later lines are Insert(key, value),
Search(key), Search(low, high) and Delete(key).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("output") {
			cfg.Script.Output, _ = flags.GetString("output")
		}
		if flags.Changed("strict") {
			cfg.Script.Strict, _ = flags.GetBool("strict")
		}
		if lf, _ := flags.GetBool("lf"); lf {
			cfg.Script.LineEnding = config.LineEndingLF
		}

		log, flush, err := newLogger(cfg.Log)
		if err != nil {
			return err
		}
		defer flush()

		runner := script.NewRunner(
			script.WithStrict(cfg.Script.Strict),
			script.WithLF(cfg.Script.LineEnding == config.LineEndingLF),
			script.WithLogger(log),
			script.WithTreeOptions(bptree.WithLogger(log)),
		)

		_, err = runner.RunFile(cmd.Context(), args[0], cfg.Script.Output)
		return err
	},
}

func init() {
	runCmd.Flags().StringP("output", "o", "output_file.txt", "file receiving search results")
	runCmd.Flags().Bool("strict", false, "fail on unparsable lines instead of skipping them")
	runCmd.Flags().Bool("lf", false, "end output lines with LF instead of CRLF")
}
