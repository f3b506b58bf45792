package orders

import (
	"strings"
	"testing"
)

func sheetValues() [][]interface{} {
	return [][]interface{}{
		{"Timestamp", " Pilih Layanan ", "Target / Link", "Jumlah Order", "Total Transfer", "Metode Pembayaran", "No. WhatsApp", "Status", "Modal", "Profit"},
		{"25/12/2024 14:30:05", "Followers Instagram", "@tokokue", "1000", "Rp 50.000", "DANA", "081234567890", "PENDING", "", ""},
		{"25/12/2024 15:00:00", "Likes Instagram", "https://instagram.com/p/abc", "500", "Rp 10.000", "OVO", "", "SUCCESS", "4000", "6000"},
		{"26/12/2024 09:12:00", "Views TikTok", "@warungsebelah", "2000", "Rp 15.000", "GoPay", "81234567890", "", "", ""},
	}
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable(sheetValues())
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}

	if len(table.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.Rows))
	}

	first := table.Rows[0]
	if first.SheetRow != 2 {
		t.Errorf("Expected first data row at sheet row 2, got %d", first.SheetRow)
	}
	if first.Service != "Followers Instagram" {
		t.Errorf("Expected service from trimmed header column, got %q", first.Service)
	}
	if first.CleanTotal != 50000 {
		t.Errorf("Expected clean total 50000, got %d", first.CleanTotal)
	}
	if first.Quantity != 1000 {
		t.Errorf("Expected quantity 1000, got %d", first.Quantity)
	}
	if first.Modal != 0 || first.Profit != 0 {
		t.Errorf("Expected unset modal/profit to default to 0, got %d/%d", first.Modal, first.Profit)
	}

	second := table.Rows[1]
	if second.Modal != 4000 || second.Profit != 6000 {
		t.Errorf("Expected modal/profit 4000/6000, got %d/%d", second.Modal, second.Profit)
	}
}

func TestParseTableMissingStatusColumn(t *testing.T) {
	values := sheetValues()
	values[0][7] = "Keterangan"

	_, err := ParseTable(values)
	if err == nil {
		t.Fatal("Expected error for missing Status column")
	}
	if !strings.Contains(err.Error(), "Status") {
		t.Errorf("Expected error to name the missing column, got %v", err)
	}
}

func TestParseTableEmpty(t *testing.T) {
	if _, err := ParseTable(nil); err == nil {
		t.Fatal("Expected error for empty sheet")
	}
}

func TestIsPending(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"PENDING", true},
		{"pending", true},
		{"  Pending  ", true},
		{"", true},
		{"   ", true},
		{"SUCCESS", false},
		{"success", false},
		{"batal", false},
	}

	for _, tc := range cases {
		if got := IsPending(tc.status); got != tc.want {
			t.Errorf("IsPending(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestPendingFilter(t *testing.T) {
	table, err := ParseTable(sheetValues())
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}

	pending := table.Pending()
	if len(pending) != 2 {
		t.Fatalf("Expected 2 pending rows, got %d", len(pending))
	}
	for _, r := range pending {
		if strings.EqualFold(strings.TrimSpace(r.Status), "SUCCESS") {
			t.Errorf("Completed row leaked into pending set: %+v", r)
		}
	}
}

func TestRowKeysStableAndDistinct(t *testing.T) {
	first, err := ParseTable(sheetValues())
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	second, err := ParseTable(sheetValues())
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}

	seen := make(map[string]bool)
	for i := range first.Rows {
		if first.Rows[i].Key != second.Rows[i].Key {
			t.Errorf("Row %d key changed between parses: %s vs %s", i, first.Rows[i].Key, second.Rows[i].Key)
		}
		if seen[first.Rows[i].Key] {
			t.Errorf("Duplicate key %s", first.Rows[i].Key)
		}
		seen[first.Rows[i].Key] = true
	}
}

func TestRowKeySurvivesRowShift(t *testing.T) {
	table, err := ParseTable(sheetValues())
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	target := table.Rows[2].Key

	// A new form submission lands in the middle of the sheet.
	values := sheetValues()
	inserted := []interface{}{"26/12/2024 08:00:00", "Likes Instagram", "@lain", "100", "Rp 2.000", "DANA", "", "PENDING", "", ""}
	values = append(values[:2], append([][]interface{}{inserted}, values[2:]...)...)

	shifted, err := ParseTable(values)
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}

	row, found := shifted.FindPending(target)
	if !found {
		t.Fatal("Expected to re-locate row by key after shift")
	}
	if row.SheetRow != 5 {
		t.Errorf("Expected shifted sheet row 5, got %d", row.SheetRow)
	}
	if row.Target != "@warungsebelah" {
		t.Errorf("Key resolved to wrong row: %+v", row)
	}
}

func TestFindPendingExcludesCompleted(t *testing.T) {
	table, err := ParseTable(sheetValues())
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}

	completed := table.Rows[1]
	if _, found := table.FindPending(completed.Key); found {
		t.Error("FindPending returned a completed row")
	}
}
