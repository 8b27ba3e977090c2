// backend/src/parsers/camt053/parser.go
package camt053

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/bankvisor/backend/src/logger"
	"github.com/username/bankvisor/backend/src/models"
	"github.com/username/bankvisor/backend/src/parsererror"
	"github.com/username/bankvisor/backend/src/parsers/iso20022"
	"gopkg.in/xmlpath.v2"
)

const parserName = "camt053"

// Path constants for the camt.053.001.02 schema. Only the statement walk is
// anchored at the document root; everything else is relative to the Stmt, Bal
// or Ntry context node, so fields never leak across statements, balances or
// entries. Entry party, account and remittance details sit under the entry's
// NtryDtls/TxDtls block.
var (
	pathStatements = xmlpath.MustCompile("//Stmt")

	pathStmtID      = xmlpath.MustCompile("Id")
	pathAccountIBAN = xmlpath.MustCompile("Acct/Id/IBAN")
	pathAccountOthr = xmlpath.MustCompile("Acct/Id/Othr/Id")
	pathAccountName = xmlpath.MustCompile("Acct/Nm")
	pathCreatedAt   = xmlpath.MustCompile("CreDtTm")

	pathBalances    = xmlpath.MustCompile("Bal")
	pathBalanceCode = xmlpath.MustCompile("Tp/CdOrPrtry/Cd")
	pathBalanceDate = xmlpath.MustCompile("Dt/Dt")
	pathBalanceTime = xmlpath.MustCompile("Dt/DtTm")

	pathEntries      = xmlpath.MustCompile("Ntry")
	pathAmount       = xmlpath.MustCompile("Amt")
	pathCurrency     = xmlpath.MustCompile("Amt/@Ccy")
	pathIndicator    = xmlpath.MustCompile("CdtDbtInd")
	pathDebtorName   = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Dbtr/Nm")
	pathDebtorIBAN   = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/DbtrAcct/Id/IBAN")
	pathDebtorOthr   = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/DbtrAcct/Id/Othr/Id")
	pathCreditorName = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Cdtr/Nm")
	pathCreditorIBAN = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/CdtrAcct/Id/IBAN")
	pathCreditorOthr = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/CdtrAcct/Id/Othr/Id")
	pathRemittance   = xmlpath.MustCompile("NtryDtls/TxDtls/RmtInf/Ustrd")
	pathValueDate    = xmlpath.MustCompile("ValDt/Dt")
	pathBookingDate  = xmlpath.MustCompile("BookgDt/Dt")
)

// Camt053Parser extracts statement, balance and transaction records from
// bank-to-customer account statement files.
type Camt053Parser struct {
	definitions iso20022.BalanceDefinitions
}

// NewParser creates a parser with the canonical balance code table.
func NewParser() *Camt053Parser {
	return NewParserWithDefinitions(iso20022.DefaultBalanceDefinitions())
}

// NewParserWithDefinitions creates a parser with an injected code table, so
// alternate tables can be substituted in tests.
func NewParserWithDefinitions(definitions iso20022.BalanceDefinitions) *Camt053Parser {
	return &Camt053Parser{definitions: definitions}
}

// ParseFile loads a CAMT.053 file and extracts per-statement records plus one
// record per statement entry. A document with zero Stmt elements fails with a
// format error regardless of other content.
func (p *Camt053Parser) ParseFile(path string) (*models.ParseResult, error) {
	root, err := iso20022.Load(path, iso20022.NamespaceCamt053)
	if err != nil {
		return nil, err
	}

	result, err := p.extract(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	result.File = path

	logger.L.Info("Parsed CAMT.053 file",
		"path", path, "statements", len(result.Statements), "transactions", len(result.Transactions))
	return result, nil
}

func (p *Camt053Parser) extract(root *xmlpath.Node) (*models.ParseResult, error) {
	result := &models.ParseResult{Source: "camt"}

	found := false
	for it := pathStatements.Iter(root); it.Next(); {
		found = true
		stmt := it.Node()

		statement, err := p.parseStatementHeader(stmt)
		if err != nil {
			return nil, err
		}

		statement.Balances, err = p.parseBalances(stmt)
		if err != nil {
			return nil, err
		}

		txs, err := p.parseTransactions(stmt, statement.StatementID)
		if err != nil {
			return nil, err
		}

		// Summary figures cover this statement's own entries only.
		statement.NumTransactions = len(txs)
		net := decimal.Zero
		for _, tx := range txs {
			net = net.Add(tx.Amount)
		}
		statement.NetAmount = net

		result.Statements = append(result.Statements, statement)
		result.Transactions = append(result.Transactions, txs...)
	}

	if !found {
		return nil, parsererror.ErrNoStatements
	}
	return result, nil
}

func (p *Camt053Parser) parseStatementHeader(stmt *xmlpath.Node) (models.Statement, error) {
	stmtID, err := iso20022.RequiredText(stmt, parserName, "Id", pathStmtID)
	if err != nil {
		return models.Statement{}, err
	}
	accountID, err := iso20022.RequiredText(stmt, parserName, "Acct/Id", pathAccountIBAN, pathAccountOthr)
	if err != nil {
		return models.Statement{}, err
	}
	return models.Statement{
		StatementID: stmtID,
		AccountID:   accountID,
		AccountName: iso20022.TextOr(stmt, "", pathAccountName),
		CreatedAt:   iso20022.TextOr(stmt, "", pathCreatedAt),
	}, nil
}

// parseBalances reads every Bal element under the statement into a mapping
// keyed by type code. If a code repeats, the last occurrence wins.
func (p *Camt053Parser) parseBalances(stmt *xmlpath.Node) (map[string]models.Balance, error) {
	balances := make(map[string]models.Balance)
	for it := pathBalances.Iter(stmt); it.Next(); {
		bal := it.Node()

		code, err := iso20022.RequiredText(bal, parserName, "Bal/Tp/Cd", pathBalanceCode)
		if err != nil {
			return nil, err
		}
		amount, err := iso20022.RequiredAmount(bal, parserName, "Bal/Amt", pathAmount)
		if err != nil {
			return nil, err
		}
		currency, err := iso20022.RequiredText(bal, parserName, "Bal/Amt/@Ccy", pathCurrency)
		if err != nil {
			return nil, err
		}
		indicator, err := iso20022.RequiredText(bal, parserName, "Bal/CdtDbtInd", pathIndicator)
		if err != nil {
			return nil, err
		}

		balances[code] = models.Balance{
			Code:        code,
			Description: p.definitions.Describe(code),
			Amount:      iso20022.ApplySign(amount, indicator),
			Currency:    currency,
			CreditDebit: indicator,
			Date:        iso20022.TextOr(bal, "", pathBalanceDate, pathBalanceTime),
		}
	}
	return balances, nil
}

// parseTransactions reads the statement's direct-child Ntry elements in
// document order, tagging each record with the owning statement's id.
func (p *Camt053Parser) parseTransactions(stmt *xmlpath.Node, stmtID string) ([]models.StatementTransaction, error) {
	var txs []models.StatementTransaction
	for it := pathEntries.Iter(stmt); it.Next(); {
		entry := it.Node()

		amount, err := iso20022.RequiredAmount(entry, parserName, "Ntry/Amt", pathAmount)
		if err != nil {
			return nil, err
		}
		currency, err := iso20022.RequiredText(entry, parserName, "Ntry/Amt/@Ccy", pathCurrency)
		if err != nil {
			return nil, err
		}
		indicator, err := iso20022.RequiredText(entry, parserName, "Ntry/CdtDbtInd", pathIndicator)
		if err != nil {
			return nil, err
		}

		txs = append(txs, models.StatementTransaction{
			StatementID:     stmtID,
			DebtorName:      iso20022.TextOr(entry, "", pathDebtorName),
			DebtorAccount:   iso20022.TextOr(entry, "", pathDebtorIBAN, pathDebtorOthr),
			CreditorName:    iso20022.TextOr(entry, "", pathCreditorName),
			CreditorAccount: iso20022.TextOr(entry, "", pathCreditorIBAN, pathCreditorOthr),
			Amount:          iso20022.ApplySign(amount, indicator),
			Currency:        currency,
			CreditDebit:     indicator,
			Reference:       iso20022.JoinText(entry, pathRemittance, " "),
			ValueDate:       iso20022.OptionalText(entry, pathValueDate),
			BookingDate:     iso20022.OptionalText(entry, pathBookingDate),
		})
	}
	return txs, nil
}
