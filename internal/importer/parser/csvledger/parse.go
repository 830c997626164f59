// Package csvledger parses CSV ledger exports.
//
// Exports from different tools name their columns differently, so the
// header is matched against a table of known aliases. Value level cleanup
// (directions, amounts, dates) is the normalizer's job, this package only
// locates the fields.
package csvledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/flowcast/backend/internal/forecast"
	"github.com/flowcast/backend/internal/importer"
	"github.com/flowcast/backend/internal/importer/helpers"
	"github.com/flowcast/backend/internal/models"
)

// columnAliases maps known header spellings to canonical column names.
var columnAliases = map[string]string{
	"date":             "date",
	"transaction_date": "date",
	"日付":               "date",
	"direction":        "direction",
	"type":             "direction",
	"section":          "direction",
	"inout":            "direction",
	"区分":               "direction",
	"amount":           "amount",
	"value":            "amount",
	"金額":               "amount",
	"category":         "category",
	"カテゴリ":             "category",
	"note":             "note",
	"memo":             "note",
	"description":      "note",
	"摘要":               "note",
}

var (
	errMissingColumn = "the file has no %s column"
)

// Parse reads a CSV ledger export into transaction previews for an account.
//
// Rows that fail validation are returned with their Error field set and the
// line they came from, the caller decides whether to skip or abort. Errors
// in the CSV structure itself abort the parse.
func Parse(f io.Reader, account models.Account) ([]importer.TransactionPreview, error) {
	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err == io.EOF {
		return []importer.TransactionPreview{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read the CSV header: %w", err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		if canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
			if _, exists := columns[canonical]; !exists {
				columns[canonical] = i
			}
		}
	}

	for _, required := range []string{"date", "direction", "amount"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf(errMissingColumn, required)
		}
	}

	field := func(record []string, name string) string {
		index, ok := columns[name]
		if !ok || index >= len(record) {
			return ""
		}
		return record[index]
	}

	var previews []importer.TransactionPreview

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvReadError(fmt.Errorf("could not read line in CSV: %w", err))
		}

		line, _ := reader.FieldPos(0)

		preview := importer.TransactionPreview{
			Line:        line,
			RawCategory: strings.TrimSpace(field(record, "category")),
		}

		transaction, err := forecast.Normalize(forecast.RawRecord{
			Date:      field(record, "date"),
			Direction: field(record, "direction"),
			Amount:    field(record, "amount"),
			Category:  field(record, "category"),
			Note:      field(record, "note"),
		})
		if err != nil {
			preview.Error = err.Error()
			previews = append(previews, preview)
			continue
		}

		transaction.AccountID = account.ID
		transaction.ImportHash = helpers.Sha256String(strings.Join(record, ","))

		preview.Transaction = transaction
		previews = append(previews, preview)
	}

	return previews, nil
}

// csvReadError returns an error that includes the line of the input the
// error occurred in, if the CSV reader knows it.
func csvReadError(err error) error {
	var parseError *csv.ParseError
	if errors.As(err, &parseError) {
		return fmt.Errorf("error in line %d of the CSV: %w", parseError.Line, err)
	}

	return err
}
