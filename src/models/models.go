// backend/src/models/models.go
package models

import "github.com/shopspring/decimal"

// Payment is the flat, self-contained record for one pain.001 credit transfer.
// Each parser is responsible for merging the owning batch's header fields
// (debtor name/account, execution date) into every payment so a record can be
// exported as a single tabular row without joins.
type Payment struct {
	CreditorName    string          `json:"creditor_name"`
	Amount          decimal.Decimal `json:"amount"` // unsigned instructed amount
	Currency        string          `json:"currency"`
	Reference       string          `json:"reference"` // RmtInf/Ustrd lines, space-joined
	CreditorAccount string          `json:"creditor_account"`
	Country         string          `json:"country"`
	Address         string          `json:"address"` // AdrLine entries, space-joined

	// Denormalized batch header.
	DebtorName    string `json:"debtor_name"`
	DebtorAccount string `json:"debtor_account"`
	ExecutionDate string `json:"execution_date"`
}

// PaymentBatch holds the header of one pain.001 PmtInf block.
type PaymentBatch struct {
	DebtorName    string `json:"debtor_name"`
	DebtorAccount string `json:"debtor_account"`
	ExecutionDate string `json:"execution_date"`
	NumPayments   int    `json:"num_payments"`
}

// Balance is one CAMT.053 balance entry. Amount is signed: a DBIT indicator
// negates the raw magnitude.
type Balance struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CreditDebit string          `json:"credit_debit"`
	Date        string          `json:"date"`
}

// Statement is one CAMT.053 bank statement with its balances keyed by type
// code and summary figures derived from its own entries only.
type Statement struct {
	StatementID     string             `json:"statement_id"`
	AccountID       string             `json:"account_id"`
	AccountName     string             `json:"account_name"`
	CreatedAt       string             `json:"created_at"` // CreDtTm, "" when absent
	Balances        map[string]Balance `json:"balances"`
	NumTransactions int                `json:"num_transactions"`
	NetAmount       decimal.Decimal    `json:"net_amount"`
}

// StatementTransaction is one CAMT.053 entry (Ntry), flattened and tagged with
// the owning statement's id. Value and booking dates are pointers so callers
// can tell "not present" from "present but blank".
type StatementTransaction struct {
	StatementID     string          `json:"statement_id"`
	DebtorName      string          `json:"debtor_name"`
	DebtorAccount   string          `json:"debtor_account"`
	CreditorName    string          `json:"creditor_name"`
	CreditorAccount string          `json:"creditor_account"`
	Amount          decimal.Decimal `json:"amount"` // signed, DBIT negated
	Currency        string          `json:"currency"`
	CreditDebit     string          `json:"credit_debit"`
	Reference       string          `json:"reference"`
	ValueDate       *string         `json:"value_date"`
	BookingDate     *string         `json:"booking_date"`
}

// ParseResult is the full output of one extraction call. Exactly one of the
// pain.001 or CAMT.053 sections is populated, according to Source.
type ParseResult struct {
	RunID  string `json:"run_id"`
	Source string `json:"source"` // "pain001" or "camt"
	File   string `json:"file"`

	// pain.001
	Batches       []PaymentBatch `json:"batches,omitempty"`
	Payments      []Payment      `json:"payments,omitempty"`
	BatchCount    int            `json:"batch_count,omitempty"`
	TotalPayments int            `json:"total_payments,omitempty"`

	// CAMT.053
	Statements   []Statement            `json:"statements,omitempty"`
	Transactions []StatementTransaction `json:"transactions,omitempty"`
}

// FileStatus records the outcome of one file in a folder run.
type FileStatus struct {
	FileName string `json:"file_name"`
	Status   string `json:"status"` // "Success" or "Failed"
	Error    string `json:"error,omitempty"`
}

// FolderResult aggregates a folder run: per-file outcomes plus the merged
// records of every file that parsed successfully.
type FolderResult struct {
	Files        []FileStatus           `json:"files"`
	Statements   []Statement            `json:"statements,omitempty"`
	Transactions []StatementTransaction `json:"transactions,omitempty"`
	Payments     []Payment              `json:"payments,omitempty"`
}
