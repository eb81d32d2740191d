// =============================================================================
// Ledger Extractor - Main Entry Point
// =============================================================================
//
// USAGE:
//   ledgerx extract     - Extract datasets from accounting workbooks
//   ledgerx classify    - Show the recognized layout of each input
//   ledgerx version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Extraction pipeline (not for external import)
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/ledgerx/cmd"
)

func main() {
	cmd.Execute()
}
