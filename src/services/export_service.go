// backend/src/services/export_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/username/bankvisor/backend/src/database"
	"github.com/username/bankvisor/backend/src/logger"
	"github.com/username/bankvisor/backend/src/models"
	"github.com/username/bankvisor/backend/src/security/validation"
	"github.com/xuri/excelize/v2"
)

// Sheet names for the Excel export, matching the record types.
const (
	sheetBalances     = "Balances"
	sheetTransactions = "Transactions"
	sheetStats        = "Stats"
	sheetPayments     = "Payments"
)

type exportServiceImpl struct{}

func NewExportService() ExportService {
	return &exportServiceImpl{}
}

// Export dispatches on the output extension.
func (s *exportServiceImpl) Export(result *models.ParseResult, outputPath string) error {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".csv":
		return s.ExportCSV(result, outputPath)
	case ".xlsx":
		return s.ExportExcel(result, outputPath)
	case ".db", ".sqlite":
		return s.ExportSQLite(result)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOutput, outputPath)
	}
}

// cell cleans a free-text value for spreadsheet output: strip unprintable
// characters and neutralize formula-injection prefixes.
func cell(value string) string {
	return validation.SanitizeForFormulaInjection(validation.StripUnprintable(value))
}

func orEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// ExportCSV writes the record set as CSV rows: payments for pain.001,
// per-statement stats for CAMT.053 (the full CAMT detail goes to Excel or
// sqlite, which can hold more than one table).
func (s *exportServiceImpl) ExportCSV(result *models.ParseResult, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if result.Source == "pain001" {
		if err := w.Write([]string{
			"Name", "Amount", "Currency", "Reference", "CreditorAccount",
			"Country", "Address", "DebtorName", "DebtorAccount", "ExecutionDate",
		}); err != nil {
			return err
		}
		for _, p := range result.Payments {
			if err := w.Write([]string{
				cell(p.CreditorName), p.Amount.String(), p.Currency, cell(p.Reference),
				cell(p.CreditorAccount), p.Country, cell(p.Address),
				cell(p.DebtorName), cell(p.DebtorAccount), p.ExecutionDate,
			}); err != nil {
				return err
			}
		}
	} else {
		if err := w.Write([]string{
			"StatementId", "AccountId", "AccountName", "StatementCreated",
			"NumTransactions", "NetAmount",
		}); err != nil {
			return err
		}
		for _, st := range result.Statements {
			if err := w.Write([]string{
				cell(st.StatementID), cell(st.AccountID), cell(st.AccountName),
				st.CreatedAt, strconv.Itoa(st.NumTransactions), st.NetAmount.String(),
			}); err != nil {
				return err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	logger.L.Info("CSV export written", "path", outputPath)
	return nil
}

// ExportExcel writes a multi-sheet workbook: Balances/Transactions/Stats for
// CAMT.053, a single Payments sheet for pain.001.
func (s *exportServiceImpl) ExportExcel(result *models.ParseResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if result.Source == "pain001" {
		if err := s.writePaymentsSheet(f, result); err != nil {
			return err
		}
	} else {
		if err := s.writeCamtSheets(f, result); err != nil {
			return err
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving %s: %w", outputPath, err)
	}
	logger.L.Info("Excel export written", "path", outputPath)
	return nil
}

func (s *exportServiceImpl) writePaymentsSheet(f *excelize.File, result *models.ParseResult) error {
	if err := f.SetSheetName("Sheet1", sheetPayments); err != nil {
		return err
	}
	header := []interface{}{
		"Name", "Amount", "Currency", "Reference", "CreditorAccount",
		"Country", "Address", "DebtorName", "DebtorAccount", "ExecutionDate",
	}
	if err := f.SetSheetRow(sheetPayments, "A1", &header); err != nil {
		return err
	}
	for i, p := range result.Payments {
		row := []interface{}{
			cell(p.CreditorName), p.Amount.String(), p.Currency, cell(p.Reference),
			cell(p.CreditorAccount), p.Country, cell(p.Address),
			cell(p.DebtorName), cell(p.DebtorAccount), p.ExecutionDate,
		}
		if err := f.SetSheetRow(sheetPayments, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *exportServiceImpl) writeCamtSheets(f *excelize.File, result *models.ParseResult) error {
	if err := f.SetSheetName("Sheet1", sheetBalances); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetTransactions); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheetStats); err != nil {
		return err
	}

	balHeader := []interface{}{"StatementId", "Code", "Description", "Amount", "Currency", "DrCr", "Date"}
	if err := f.SetSheetRow(sheetBalances, "A1", &balHeader); err != nil {
		return err
	}
	balRow := 2
	for _, st := range result.Statements {
		for _, bal := range st.Balances {
			row := []interface{}{
				cell(st.StatementID), bal.Code, cell(bal.Description),
				bal.Amount.String(), bal.Currency, bal.CreditDebit, bal.Date,
			}
			if err := f.SetSheetRow(sheetBalances, fmt.Sprintf("A%d", balRow), &row); err != nil {
				return err
			}
			balRow++
		}
	}

	txHeader := []interface{}{
		"StatementId", "DebtorName", "DebtorAccount", "CreditorName", "CreditorAccount",
		"Amount", "Currency", "CreditDebit", "Reference", "ValueDate", "BookingDate",
	}
	if err := f.SetSheetRow(sheetTransactions, "A1", &txHeader); err != nil {
		return err
	}
	for i, tx := range result.Transactions {
		row := []interface{}{
			cell(tx.StatementID), cell(tx.DebtorName), cell(tx.DebtorAccount),
			cell(tx.CreditorName), cell(tx.CreditorAccount),
			tx.Amount.String(), tx.Currency, tx.CreditDebit, cell(tx.Reference),
			orEmpty(tx.ValueDate), orEmpty(tx.BookingDate),
		}
		if err := f.SetSheetRow(sheetTransactions, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	statsHeader := []interface{}{"StatementId", "AccountId", "AccountName", "StatementCreated", "NumTransactions", "NetAmount"}
	if err := f.SetSheetRow(sheetStats, "A1", &statsHeader); err != nil {
		return err
	}
	for i, st := range result.Statements {
		row := []interface{}{
			cell(st.StatementID), cell(st.AccountID), cell(st.AccountName),
			st.CreatedAt, st.NumTransactions, st.NetAmount.String(),
		}
		if err := f.SetSheetRow(sheetStats, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

// ExportSQLite inserts the record set into the export database, tagged with
// the result's run id. database.InitDB / RunMigrations must have run first.
func (s *exportServiceImpl) ExportSQLite(result *models.ParseResult) error {
	if database.DB == nil {
		return fmt.Errorf("export database is not initialized")
	}

	tx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("starting export transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO parse_runs (run_id, source, file) VALUES (?, ?, ?)`,
		result.RunID, result.Source, result.File,
	); err != nil {
		return fmt.Errorf("inserting parse run: %w", err)
	}

	for _, p := range result.Payments {
		if _, err := tx.Exec(
			`INSERT INTO payments (run_id, creditor_name, amount, currency, reference,
				creditor_account, country, address, debtor_name, debtor_account, execution_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			result.RunID, p.CreditorName, p.Amount.String(), p.Currency, p.Reference,
			p.CreditorAccount, p.Country, p.Address, p.DebtorName, p.DebtorAccount, p.ExecutionDate,
		); err != nil {
			return fmt.Errorf("inserting payment: %w", err)
		}
	}

	for _, st := range result.Statements {
		if _, err := tx.Exec(
			`INSERT INTO statements (run_id, statement_id, account_id, account_name,
				created_at, num_transactions, net_amount)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.RunID, st.StatementID, st.AccountID, st.AccountName,
			st.CreatedAt, st.NumTransactions, st.NetAmount.String(),
		); err != nil {
			return fmt.Errorf("inserting statement: %w", err)
		}
		for _, bal := range st.Balances {
			if _, err := tx.Exec(
				`INSERT INTO balances (run_id, statement_id, code, description,
					amount, currency, credit_debit, balance_date)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				result.RunID, st.StatementID, bal.Code, bal.Description,
				bal.Amount.String(), bal.Currency, bal.CreditDebit, bal.Date,
			); err != nil {
				return fmt.Errorf("inserting balance: %w", err)
			}
		}
	}

	for _, t := range result.Transactions {
		if _, err := tx.Exec(
			`INSERT INTO statement_transactions (run_id, statement_id, debtor_name,
				debtor_account, creditor_name, creditor_account, amount, currency,
				credit_debit, reference, value_date, booking_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			result.RunID, t.StatementID, t.DebtorName, t.DebtorAccount,
			t.CreditorName, t.CreditorAccount, t.Amount.String(), t.Currency,
			t.CreditDebit, t.Reference, t.ValueDate, t.BookingDate,
		); err != nil {
			return fmt.Errorf("inserting statement transaction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export transaction: %w", err)
	}
	logger.L.Info("SQLite export committed", "runID", result.RunID, "source", result.Source)
	return nil
}
