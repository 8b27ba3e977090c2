// backend/src/cmd/folder.go
package cmd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
	"github.com/username/bankvisor/backend/src/models"
	"github.com/username/bankvisor/backend/src/parsers"
	"github.com/username/bankvisor/backend/src/services"
)

var folderType string

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Parse every file in a folder, recording per-file success or failure",
	RunE: func(cmd *cobra.Command, args []string) error {
		if SharedFlags.Input == "" {
			return errors.New("--input is required")
		}

		svc := services.NewStatementService(cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval))
		folder, err := svc.ProcessFolder(folderType, SharedFlags.Input)
		if err != nil {
			return err
		}

		for _, fs := range folder.Files {
			if fs.Error != "" {
				fmt.Printf("%-40s %s: %s\n", fs.FileName, fs.Status, fs.Error)
			} else {
				fmt.Printf("%-40s %s\n", fs.FileName, fs.Status)
			}
		}

		if SharedFlags.Output == "" {
			return nil
		}

		merged := &models.ParseResult{
			RunID:         uuid.New().String(),
			Source:        folderType,
			File:          SharedFlags.Input,
			Payments:      folder.Payments,
			TotalPayments: len(folder.Payments),
			Statements:    folder.Statements,
			Transactions:  folder.Transactions,
		}
		return exportResult(merged, SharedFlags.Output)
	},
}

func init() {
	folderCmd.Flags().StringVarP(&folderType, "type", "t", parsers.SourceCamt, "message type of the files in the folder: camt or pain001")
}
