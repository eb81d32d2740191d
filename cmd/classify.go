// =============================================================================
// Ledger Extractor - Classify Command
// =============================================================================
//
// This file defines the 'classify' command. It shows how each input path is
// recognized without opening any workbook, which makes it useful for
// checking a new export folder before running 'extract'.
//
// COMMAND USAGE:
//   ledgerx classify [paths...]
//
// OUTPUT:
//   turnover-105         data/Обороты по счету 105 за 2 квартал 2024.xlsx
//   InvalidPath          data/~$Обороты по счету 21 за 1 квартал 2024.xlsx
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledgerx/internal/config"
	"github.com/ginjaninja78/ledgerx/internal/converter"
	"github.com/ginjaninja78/ledgerx/internal/layout"
	"github.com/ginjaninja78/ledgerx/pkg/utils"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [paths...]",
	Short: "Show the recognized layout of each input workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runClassify(cmd.OutOrStdout(), cfg, args)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

// runClassify prints one line per discovered file: the layout name, or the
// error kind when the path is rejected.
func runClassify(out io.Writer, cfg *config.Config, args []string) error {
	files, err := utils.DiscoverInputFiles(defaultInputs(cfg, args), *cfg.Recursive)
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}

	classifier := layout.NewClassifier(cfg.StockMarker, cfg.CatalogFile)
	for _, file := range files {
		var label string
		if d, err := classifier.Classify(file); err != nil {
			label = converter.ErrorKindName(err)
		} else {
			label = d.Layout.String()
		}
		fmt.Fprintf(out, "%-20s %s\n", label, file)
	}

	return nil
}
