package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ridho_store_admin/internal/orders"
)

type recordingWriter struct {
	headers []string
	writes  []string
	failAt  int // 1-based write index that fails, 0 = never
}

func (r *recordingWriter) HeaderRow(ctx context.Context, spreadsheetID, sheetName string) ([]string, error) {
	return r.headers, nil
}

func (r *recordingWriter) UpdateCell(ctx context.Context, spreadsheetID, sheetName string, column, row int, value interface{}) error {
	if r.failAt != 0 && len(r.writes)+1 == r.failAt {
		return errors.New("rate limited")
	}
	r.writes = append(r.writes, fmt.Sprintf("%s%d=%v", ColumnLetter(column), row, value))
	return nil
}

func TestApplyOrderUpdate(t *testing.T) {
	w := &recordingWriter{
		headers: []string{"Timestamp", "Pilih Layanan", "Status", "Modal", "Profit"},
	}

	err := ApplyOrderUpdate(context.Background(), w, "id", "Sheet1", OrderUpdate{
		SheetRow: 7,
		Status:   "SUCCESS",
		Modal:    20000,
		Profit:   30000,
	})
	if err != nil {
		t.Fatalf("ApplyOrderUpdate failed: %v", err)
	}

	want := []string{"C7=SUCCESS", "D7=20000", "E7=30000"}
	if len(w.writes) != 3 {
		t.Fatalf("Expected 3 writes, got %v", w.writes)
	}
	for i := range want {
		if w.writes[i] != want[i] {
			t.Errorf("Write %d: got %q, want %q", i, w.writes[i], want[i])
		}
	}
}

func TestApplyOrderUpdateReorderedColumns(t *testing.T) {
	// Column positions come from the live header scan, so a reordered
	// sheet still gets the right cells.
	w := &recordingWriter{
		headers: []string{"Profit", "Modal", "Status", "Timestamp"},
	}

	err := ApplyOrderUpdate(context.Background(), w, "id", "Sheet1", OrderUpdate{
		SheetRow: 3,
		Status:   "SUCCESS",
		Modal:    100,
		Profit:   900,
	})
	if err != nil {
		t.Fatalf("ApplyOrderUpdate failed: %v", err)
	}

	want := []string{"C3=SUCCESS", "B3=100", "A3=900"}
	for i := range want {
		if w.writes[i] != want[i] {
			t.Errorf("Write %d: got %q, want %q", i, w.writes[i], want[i])
		}
	}
}

func TestApplyOrderUpdateRenamedColumn(t *testing.T) {
	w := &recordingWriter{
		headers: []string{"Timestamp", "Keterangan", "Modal", "Profit"},
	}

	err := ApplyOrderUpdate(context.Background(), w, "id", "Sheet1", OrderUpdate{SheetRow: 2, Status: "SUCCESS"})
	if err == nil {
		t.Fatal("Expected error for renamed Status column")
	}
	if !strings.Contains(err.Error(), orders.ColStatus) {
		t.Errorf("Expected error to name the missing column, got %v", err)
	}
	if len(w.writes) != 0 {
		t.Errorf("Expected no writes when the header scan fails, got %v", w.writes)
	}
}

func TestApplyOrderUpdateMidSequenceFailure(t *testing.T) {
	w := &recordingWriter{
		headers: []string{"Status", "Modal", "Profit"},
		failAt:  2,
	}

	err := ApplyOrderUpdate(context.Background(), w, "id", "Sheet1", OrderUpdate{
		SheetRow: 5,
		Status:   "SUCCESS",
		Modal:    1,
		Profit:   2,
	})
	if err == nil {
		t.Fatal("Expected error from second write")
	}
	if !strings.Contains(err.Error(), orders.ColModal) {
		t.Errorf("Expected error to name the Modal column, got %v", err)
	}
	// The first write stands; there is no rollback.
	if len(w.writes) != 1 || w.writes[0] != "A5=SUCCESS" {
		t.Errorf("Expected only the status write, got %v", w.writes)
	}
}

func TestColumnLetter(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
	}

	for _, tc := range cases {
		if got := ColumnLetter(tc.index); got != tc.want {
			t.Errorf("ColumnLetter(%d) = %q, want %q", tc.index, got, tc.want)
		}
	}
}
