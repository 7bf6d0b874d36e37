package ledger

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/credited/internal/model"
)

// Header is the first line of an export.
const Header = "date,amount,description,bank"

const (
	numFields = 4
	colDate   = 0
	colAmount = 1
	colDesc   = 2
	colBank   = 3
)

// WriteCSV writes the header and one row per transaction.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(Header + "\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if _, err := bw.WriteString(MarshalRow(txn) + "\n"); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return bw.Flush()
}

// MarshalRow renders txn as one export line. The description is always
// quoted with internal quotes doubled; the bank only when it must be.
func MarshalRow(txn model.Transaction) string {
	row := make([]string, numFields)
	row[colDate] = txn.Date.Format(model.DateFormat)
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colDesc] = quote(txn.Description)
	row[colBank] = txn.Bank
	if strings.ContainsAny(txn.Bank, ",\"\r\n") {
		row[colBank] = quote(txn.Bank)
	}
	return strings.Join(row, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ReadCSV parses an export back into transactions. Only the exported
// fields are populated; ID and RawText are left empty.
func ReadCSV(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading export CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// UnmarshalRow converts one parsed CSV record to a Transaction.
func UnmarshalRow(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(model.DateFormat, record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return model.Transaction{
		Date:        date,
		Amount:      amount,
		Description: record[colDesc],
		Bank:        record[colBank],
	}, nil
}
