package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/delimited-converter/internal/converter"
	"github.com/ginjaninja78/delimited-converter/internal/delimiter"
)

var detectEncoding string

// detectCmd prints the delimiter the converter would use for a file.
var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Print the detected delimiter of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("encoding") {
			cfg.Encoding = detectEncoding
		}

		logger, cleanup, err := newLogger(cfg, verbose, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()

		conv := converter.New(converter.Settings{SampleLines: cfg.SampleLines}, logger)
		d, err := conv.DetectDelimiter(args[0], cfg.Encoding)
		if err != nil {
			return err
		}
		logger.Debug("Detected delimiter", zap.String("file", args[0]), zap.String("delimiter", delimiter.Name(d)))

		fmt.Fprintln(cmd.OutOrStdout(), delimiter.Name(d))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().StringVar(&detectEncoding, "encoding", "", "Input text encoding (default utf-8)")
}
