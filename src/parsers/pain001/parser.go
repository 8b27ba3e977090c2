// backend/src/parsers/pain001/parser.go
package pain001

import (
	"github.com/username/bankvisor/backend/src/logger"
	"github.com/username/bankvisor/backend/src/models"
	"github.com/username/bankvisor/backend/src/parsers/iso20022"
	"gopkg.in/xmlpath.v2"
)

const parserName = "pain001"

// Path constants for the pain.001.001.03 schema. Supporting another schema
// version is a change to this table, not to the walk logic. Only the batch
// walk is anchored at the document root; everything else is relative to the
// PmtInf or CdtTrfTxInf context node, so fields never leak across batches or
// transactions.
var (
	pathBatches = xmlpath.MustCompile("//PmtInf")

	pathTxs           = xmlpath.MustCompile("CdtTrfTxInf")
	pathExecutionDate = xmlpath.MustCompile("ReqdExctnDt")
	pathDebtorName    = xmlpath.MustCompile("Dbtr/Nm")
	pathDebtorIBAN    = xmlpath.MustCompile("DbtrAcct/Id/IBAN")
	pathDebtorOtherID = xmlpath.MustCompile("DbtrAcct/Id/Othr/Id")

	pathAmount          = xmlpath.MustCompile("Amt/InstdAmt")
	pathCurrency        = xmlpath.MustCompile("Amt/InstdAmt/@Ccy")
	pathCreditorName    = xmlpath.MustCompile("Cdtr/Nm")
	pathCreditorIBAN    = xmlpath.MustCompile("CdtrAcct/Id/IBAN")
	pathCreditorOtherID = xmlpath.MustCompile("CdtrAcct/Id/Othr/Id")
	pathCountry         = xmlpath.MustCompile("Cdtr/PstlAdr/Ctry")
	pathRemittance      = xmlpath.MustCompile("RmtInf/Ustrd")
	pathAddressLines    = xmlpath.MustCompile("Cdtr/PstlAdr/AdrLine")
)

// Pain001Parser extracts flat payment records from SEPA credit transfer
// initiation files.
type Pain001Parser struct{}

// NewParser creates a new instance of the Pain001Parser.
func NewParser() *Pain001Parser {
	return &Pain001Parser{}
}

// ParseFile loads a pain.001 file and extracts one Payment per credit
// transfer transaction, each merged with its batch header. Batches and
// transactions are processed in document order.
func (p *Pain001Parser) ParseFile(path string) (*models.ParseResult, error) {
	root, err := iso20022.Load(path, iso20022.NamespacePain001)
	if err != nil {
		return nil, err
	}

	result, err := p.extract(root)
	if err != nil {
		return nil, err
	}
	result.File = path

	logger.L.Info("Parsed pain.001 file",
		"path", path, "batches", result.BatchCount, "payments", result.TotalPayments)
	return result, nil
}

func (p *Pain001Parser) extract(root *xmlpath.Node) (*models.ParseResult, error) {
	result := &models.ParseResult{Source: "pain001"}

	for it := pathBatches.Iter(root); it.Next(); {
		batch := it.Node()

		header, err := p.parseBatchHeader(batch)
		if err != nil {
			return nil, err
		}

		numPayments := 0
		for txIt := pathTxs.Iter(batch); txIt.Next(); {
			payment, err := p.parsePayment(txIt.Node())
			if err != nil {
				return nil, err
			}
			// Denormalize the batch header onto the payment; the field
			// sets are disjoint by construction.
			payment.DebtorName = header.DebtorName
			payment.DebtorAccount = header.DebtorAccount
			payment.ExecutionDate = header.ExecutionDate
			result.Payments = append(result.Payments, payment)
			numPayments++
		}

		header.NumPayments = numPayments
		result.Batches = append(result.Batches, header)
	}

	result.BatchCount = len(result.Batches)
	result.TotalPayments = len(result.Payments)
	return result, nil
}

// parseBatchHeader reads the PmtInf header. Execution date and debtor name
// are structurally required; the account identifier falls back from IBAN to
// the Othr form and defaults to empty.
func (p *Pain001Parser) parseBatchHeader(batch *xmlpath.Node) (models.PaymentBatch, error) {
	executionDate, err := iso20022.RequiredText(batch, parserName, "ReqdExctnDt", pathExecutionDate)
	if err != nil {
		return models.PaymentBatch{}, err
	}
	debtorName, err := iso20022.RequiredText(batch, parserName, "Dbtr/Nm", pathDebtorName)
	if err != nil {
		return models.PaymentBatch{}, err
	}
	return models.PaymentBatch{
		DebtorName:    debtorName,
		DebtorAccount: iso20022.TextOr(batch, "", pathDebtorIBAN, pathDebtorOtherID),
		ExecutionDate: executionDate,
	}, nil
}

func (p *Pain001Parser) parsePayment(tx *xmlpath.Node) (models.Payment, error) {
	amount, err := iso20022.RequiredAmount(tx, parserName, "InstdAmt", pathAmount)
	if err != nil {
		return models.Payment{}, err
	}
	currency, err := iso20022.RequiredText(tx, parserName, "InstdAmt/@Ccy", pathCurrency)
	if err != nil {
		return models.Payment{}, err
	}
	creditorName, err := iso20022.RequiredText(tx, parserName, "Cdtr/Nm", pathCreditorName)
	if err != nil {
		return models.Payment{}, err
	}

	return models.Payment{
		CreditorName:    creditorName,
		Amount:          amount,
		Currency:        currency,
		Reference:       iso20022.JoinText(tx, pathRemittance, " "),
		CreditorAccount: iso20022.TextOr(tx, "", pathCreditorIBAN, pathCreditorOtherID),
		Country:         iso20022.TextOr(tx, "", pathCountry),
		Address:         iso20022.JoinText(tx, pathAddressLines, " "),
	}, nil
}
