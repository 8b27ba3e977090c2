// backend/src/parsers/iso20022/definitions.go
package iso20022

// BalanceDefinitions maps CAMT.053 balance type codes to their display
// descriptions. The table is passed into the parser rather than read from
// package state so tests can substitute alternate tables.
type BalanceDefinitions map[string]string

// UnknownBalanceCode is the description used for codes missing from the table.
const UnknownBalanceCode = "Unknown code"

// DefaultBalanceDefinitions returns the canonical code table: the superset of
// codes observed across CAMT.053 exports.
func DefaultBalanceDefinitions() BalanceDefinitions {
	return BalanceDefinitions{
		"OPBD": "Opening booked balance",
		"CLBD": "Closing booked balance",
		"CLAV": "Closing available balance",
		"PRCD": "Previously closed booked balance",
		"FWAV": "Forward available balance",
	}
}

// Describe looks up a code, falling back to UnknownBalanceCode so an
// unrecognized type never fails the extraction.
func (d BalanceDefinitions) Describe(code string) string {
	if desc, ok := d[code]; ok {
		return desc
	}
	return UnknownBalanceCode
}
