// backend/src/cmd/convert.go
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
	"github.com/username/bankvisor/backend/src/database"
	"github.com/username/bankvisor/backend/src/models"
	"github.com/username/bankvisor/backend/src/parsers"
	"github.com/username/bankvisor/backend/src/services"
)

var camtCmd = &cobra.Command{
	Use:   "camt",
	Short: "Parse a CAMT.053 account statement file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(parsers.SourceCamt)
	},
}

var pain001Cmd = &cobra.Command{
	Use:   "pain001",
	Short: "Parse a pain.001 credit transfer initiation file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(parsers.SourcePain001)
	},
}

func runConvert(source string) error {
	if SharedFlags.Input == "" {
		return errors.New("--input is required")
	}

	svc := services.NewStatementService(cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval))
	result, err := svc.ParseFile(source, SharedFlags.Input)
	if err != nil {
		return err
	}

	if SharedFlags.Output == "" {
		return printResult(result)
	}
	return exportResult(result, SharedFlags.Output)
}

// exportResult writes the result in the format implied by the output
// extension, initializing the export database first when needed.
func exportResult(result *models.ParseResult, outputPath string) error {
	ext := strings.ToLower(filepath.Ext(outputPath))
	if ext == ".db" || ext == ".sqlite" {
		database.InitDB(outputPath)
		database.RunMigrations(outputPath)
	}
	if err := services.NewExportService().Export(result, outputPath); err != nil {
		return err
	}
	fmt.Printf("Parsed data saved to %s\n", outputPath)
	return nil
}

// printResult writes a summary line and the full record set to stdout.
func printResult(result *models.ParseResult) error {
	if result.Source == parsers.SourcePain001 {
		fmt.Printf("pain.001: batches=%d, payments=%d\n", result.BatchCount, result.TotalPayments)
	} else {
		fmt.Printf("CAMT.053: statements=%d, transactions=%d\n", len(result.Statements), len(result.Transactions))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
