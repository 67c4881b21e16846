// Package export serializes the books to CSV and JSON backup files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iho/cashflow/internal/domain"
)

const utf8BOM = "\ufeff"

// CSVHeader is the fixed column set of the transaction export.
var CSVHeader = []string{"ID", "Ngày", "Loại", "Đơn vị", "Phòng ban", "Số tiền (VNĐ)", "Ghi chú"}

// CSVFilename returns the download name for a CSV export made at t.
func CSVFilename(t time.Time) string {
	return "TTG_CashFlow_" + t.UTC().Format(domain.DateLayout) + ".csv"
}

// WriteCSV writes txs as a BOM-prefixed UTF-8 CSV. Commas in notes are
// replaced with semicolons.
func WriteCSV(w io.Writer, txs []domain.Transaction) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, tx := range txs {
		row := []string{
			tx.ID,
			tx.Date,
			tx.Type.Label(),
			tx.BusinessUnit.Label(),
			tx.Department.Label(),
			strconv.FormatInt(tx.Amount, 10),
			strings.ReplaceAll(tx.Notes, ",", ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %s: %w", tx.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
