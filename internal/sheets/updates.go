package sheets

import (
	"context"
	"fmt"

	"ridho_store_admin/internal/orders"

	"github.com/rs/zerolog/log"
)

// CellWriter is the slice of Client the row updater needs.
type CellWriter interface {
	HeaderRow(ctx context.Context, spreadsheetID, sheetName string) ([]string, error)
	UpdateCell(ctx context.Context, spreadsheetID, sheetName string, column, row int, value interface{}) error
}

// OrderUpdate is the completion write for one order row.
type OrderUpdate struct {
	SheetRow int
	Status   string
	Modal    int64
	Profit   int64
}

// ApplyOrderUpdate re-reads the live header row to locate the Status,
// Modal and Profit columns, then writes the three cells in sequence.
// There is no transaction across the writes: on a mid-sequence failure the
// earlier cells stand and the error names the column that failed, so the
// operator can see exactly how far the row got.
func ApplyOrderUpdate(ctx context.Context, w CellWriter, spreadsheetID, sheetName string, update OrderUpdate) error {
	headers, err := w.HeaderRow(ctx, spreadsheetID, sheetName)
	if err != nil {
		return err
	}

	columns := map[string]int{}
	for _, label := range []string{orders.ColStatus, orders.ColModal, orders.ColProfit} {
		index := -1
		for i, h := range headers {
			if h == label {
				index = i
				break
			}
		}
		if index == -1 {
			return fmt.Errorf("column %q not found in header row %v", label, headers)
		}
		columns[label] = index
	}

	writes := []struct {
		label string
		value interface{}
	}{
		{orders.ColStatus, update.Status},
		{orders.ColModal, update.Modal},
		{orders.ColProfit, update.Profit},
	}

	for _, cell := range writes {
		if err := w.UpdateCell(ctx, spreadsheetID, sheetName, columns[cell.label], update.SheetRow, cell.value); err != nil {
			log.Error().
				Err(err).
				Int("row", update.SheetRow).
				Str("column", cell.label).
				Msg("Failed to update order cell")
			return fmt.Errorf("failed to write %s for row %d: %w", cell.label, update.SheetRow, err)
		}
	}

	log.Info().
		Int("row", update.SheetRow).
		Str("status", update.Status).
		Int64("modal", update.Modal).
		Int64("profit", update.Profit).
		Msg("Updated order row")

	return nil
}
