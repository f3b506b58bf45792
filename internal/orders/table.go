package orders

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Column labels as produced by the order form. Matching is exact after
// trimming whitespace, so a renamed column is a parse error while a
// reordered one is harmless.
const (
	ColTimestamp = "Timestamp"
	ColService   = "Pilih Layanan"
	ColTarget    = "Target / Link"
	ColQuantity  = "Jumlah Order"
	ColTotal     = "Total Transfer"
	ColMethod    = "Metode Pembayaran"
	ColPhone     = "No. WhatsApp"
	ColStatus    = "Status"
	ColModal     = "Modal"
	ColProfit    = "Profit"
)

// Row is one order as read from the spreadsheet.
type Row struct {
	SheetRow   int    // 1-based spreadsheet row number (header is row 1)
	Key        string // stable content-derived identifier
	Timestamp  string
	Service    string
	Target     string
	Quantity   int64
	Transfer   string // raw "Total Transfer" cell text
	CleanTotal int64
	Method     string
	Phone      string
	Status     string
	Modal      int64
	Profit     int64
}

// Table is the parsed, in-memory copy of the order sheet for one render.
type Table struct {
	Rows []Row
}

// ParseTable turns raw sheet values (header row first) into order rows.
// The Status and Total Transfer columns are required; everything else
// degrades to zero values when absent.
func ParseTable(values [][]interface{}) (*Table, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("sheet is empty, expected a header row")
	}

	headers := trimmedHeaders(values[0])
	colStatus := indexOf(headers, ColStatus)
	colTotal := indexOf(headers, ColTotal)
	if colStatus == -1 || colTotal == -1 {
		missing := make([]string, 0, 2)
		if colStatus == -1 {
			missing = append(missing, ColStatus)
		}
		if colTotal == -1 {
			missing = append(missing, ColTotal)
		}
		return nil, fmt.Errorf("required column(s) %s not found in sheet, got headers %v",
			strings.Join(missing, ", "), headers)
	}

	colTimestamp := indexOf(headers, ColTimestamp)
	colService := indexOf(headers, ColService)
	colTarget := indexOf(headers, ColTarget)
	colQuantity := indexOf(headers, ColQuantity)
	colMethod := indexOf(headers, ColMethod)
	colPhone := indexOf(headers, ColPhone)
	colModal := indexOf(headers, ColModal)
	colProfit := indexOf(headers, ColProfit)

	table := &Table{}
	for i := 1; i < len(values); i++ {
		row := values[i]
		transfer := cellString(row, colTotal)
		r := Row{
			SheetRow:   i + 1,
			Timestamp:  cellString(row, colTimestamp),
			Service:    cellString(row, colService),
			Target:     cellString(row, colTarget),
			Quantity:   CleanCurrency(cellValue(row, colQuantity)),
			Transfer:   transfer,
			CleanTotal: CleanCurrency(cellValue(row, colTotal)),
			Method:     cellString(row, colMethod),
			Phone:      cellString(row, colPhone),
			Status:     cellString(row, colStatus),
			Modal:      CleanCurrency(cellValue(row, colModal)),
			Profit:     CleanCurrency(cellValue(row, colProfit)),
		}
		r.Key = rowKey(r)
		table.Rows = append(table.Rows, r)
	}

	log.Debug().
		Int("rows", len(table.Rows)).
		Int("pending", len(table.Pending())).
		Msg("Parsed order table")

	return table, nil
}

// IsPending reports whether a status cell marks an order as still open.
// Empty counts as pending because the form leaves the column blank.
func IsPending(status string) bool {
	s := strings.ToUpper(strings.TrimSpace(status))
	return s == "" || s == "PENDING"
}

// Pending returns the open orders in sheet order.
func (t *Table) Pending() []Row {
	var pending []Row
	for _, r := range t.Rows {
		if IsPending(r.Status) {
			pending = append(pending, r)
		}
	}
	return pending
}

// FindPending locates an open order by its stable key.
func (t *Table) FindPending(key string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Key == key && IsPending(r.Status) {
			return r, true
		}
	}
	return Row{}, false
}

// rowKey derives a stable identifier from the fields the form writes once
// and never edits. Row position is deliberately excluded: new form
// submissions shift positions but not keys.
func rowKey(r Row) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s|%d|%s",
		r.Timestamp, r.Service, r.Target, r.Quantity, r.Transfer)))
	return hex.EncodeToString(sum[:])[:12]
}

func trimmedHeaders(row []interface{}) []string {
	headers := make([]string, len(row))
	for i, cell := range row {
		headers[i] = strings.TrimSpace(fmt.Sprintf("%v", cell))
	}
	return headers
}

func indexOf(headers []string, label string) int {
	for i, h := range headers {
		if h == label {
			return i
		}
	}
	return -1
}

func cellValue(row []interface{}, index int) interface{} {
	if index >= 0 && index < len(row) {
		return row[index]
	}
	return nil
}

func cellString(row []interface{}, index int) string {
	v := cellValue(row, index)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
