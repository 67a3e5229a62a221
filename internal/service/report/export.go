package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/aerotrack/partledger/internal/domain"
)

const ledgerSheet = "Ledger"

var ledgerHeader = []any{
	"Date", "Opening", "Added", "Dispatched", "Current", "Closing", "Opened", "Closed",
}

// ExportLedgerXLSX writes the ledger summary of a range to w as a workbook
// with one row per day and a totals row.
func (s *Service) ExportLedgerXLSX(ctx context.Context, r domain.DateRange, w io.Writer) error {
	sum, err := s.LedgerSummary(ctx, r)
	if err != nil {
		return err
	}

	f, err := buildLedgerWorkbook(sum)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	s.log.InfoContext(ctx, "ledger exported",
		slog.String("from", r.From.Format(domain.DateLayout)),
		slog.String("to", r.To.Format(domain.DateLayout)),
		slog.Int("days", len(sum.Days)),
	)
	return nil
}

func buildLedgerWorkbook(sum *domain.LedgerSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeLedgerRows(f, sum); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeLedgerRows(f *excelize.File, sum *domain.LedgerSummary) error {
	if err := f.SetSheetRow(ledgerSheet, "A1", &ledgerHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(ledgerSheet, "A1", "H1", bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	row := 2
	for _, d := range sum.Days {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		var closing any = ""
		if d.ClosingStock != nil {
			closing = *d.ClosingStock
		}
		values := []any{
			d.DateString(), d.OpeningStock, d.PartsAdded, d.PartsDispatched,
			d.CurrentStock, closing, yesNo(d.IsOpened), yesNo(d.IsClosed),
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &values); err != nil {
			return fmt.Errorf("write %s: %w", d.DateString(), err)
		}
		row++
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	var lastClosing any = ""
	if sum.LastClosing != nil {
		lastClosing = *sum.LastClosing
	}
	totals := []any{"Total", sum.FirstOpening, sum.TotalAdded, sum.TotalDispatched, "", lastClosing}
	if err := f.SetSheetRow(ledgerSheet, cell, &totals); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}

	return f.SetColWidth(ledgerSheet, "A", "A", 12)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
