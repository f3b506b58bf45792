// Package dashboard holds the retained view model behind the admin API:
// a parsed snapshot of the order sheet, header metrics, chart series, and
// the order-completion workflow.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ridho_store_admin/internal/catalog"
	"ridho_store_admin/internal/fulfillment"
	"ridho_store_admin/internal/notifications"
	"ridho_store_admin/internal/orders"
	"ridho_store_admin/internal/retry"
	"ridho_store_admin/internal/sheets"

	"github.com/rs/zerolog/log"
)

// ErrRowNotFound means the requested order is no longer pending in the
// live sheet, either completed from another tab or shifted out from under
// a stale page. The operator refreshes and tries again.
var ErrRowNotFound = errors.New("pending order not found")

// ErrInFlight rejects a completion for a row that is already mid-write,
// which is what a double-clicked button looks like.
var ErrInFlight = errors.New("order update already in progress")

// DispatchError carries the vendor's rejection message so the API can
// show it verbatim ("insufficient balance" and friends).
type DispatchError struct {
	Message string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("vendor dispatch failed: %s", e.Message)
}

// SheetSource is the slice of the sheets client the dashboard needs.
type SheetSource interface {
	ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error)
	sheets.CellWriter
}

// Dispatcher is the vendor fulfillment surface. A nil Dispatcher means
// every order is manual.
type Dispatcher interface {
	PlaceOrder(ctx context.Context, serviceID int, target string, quantity int64) fulfillment.DispatchResult
	Balance(ctx context.Context) int64
}

type Service struct {
	sheet         SheetSource
	catalog       *catalog.Catalog
	vendor        Dispatcher
	notifier      *notifications.Client
	spreadsheetID string
	sheetName     string

	mu       sync.Mutex
	table    *orders.Table
	inflight map[string]bool
}

func New(sheet SheetSource, cat *catalog.Catalog, dispatcher Dispatcher, notifier *notifications.Client, spreadsheetID, sheetName string) *Service {
	return &Service{
		sheet:         sheet,
		catalog:       cat,
		vendor:        dispatcher,
		notifier:      notifier,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		inflight:      make(map[string]bool),
	}
}

// PendingOrder is one open order as presented to the operator, with its
// catalog mapping resolved and the customer contact link prebuilt.
type PendingOrder struct {
	Key           string `json:"key"`
	Timestamp     string `json:"timestamp"`
	Service       string `json:"service"`
	Target        string `json:"target"`
	Quantity      int64  `json:"quantity"`
	Transfer      int64  `json:"transfer"`
	Method        string `json:"method,omitempty"`
	AutoEligible  bool   `json:"auto_eligible"`
	EstimatedCost int64  `json:"estimated_cost,omitempty"`
	WhatsAppLink  string `json:"whatsapp_link,omitempty"`
}

// Snapshot is one full render of the dashboard.
type Snapshot struct {
	Metrics     orders.Metrics        `json:"metrics"`
	Daily       []orders.DailyPoint   `json:"daily"`
	TopServices []orders.ServiceCount `json:"top_services"`
	Pending     []PendingOrder        `json:"pending"`
}

// CompleteResult reports a finished completion workflow.
type CompleteResult struct {
	Key           string `json:"key"`
	Profit        int64  `json:"profit"`
	VendorOrderID string `json:"vendor_order_id,omitempty"`
}

// Refresh re-reads the whole sheet and replaces the in-memory table.
// Reads go through the retry helper; a missing required column is a parse
// error that fails the render.
func (s *Service) Refresh(ctx context.Context) error {
	// The bare sheet name fetches every non-empty row. Completed orders
	// are never removed from the sheet, so a capped range would start
	// hiding new rows once the history outgrew it.
	values, err := retry.WithRetry(ctx, retry.SheetFetch, func(ctx context.Context) ([][]interface{}, error) {
		return s.sheet.ReadSheet(ctx, s.spreadsheetID, s.sheetName)
	})
	if err != nil {
		return fmt.Errorf("failed to read order sheet: %w", err)
	}

	table, err := orders.ParseTable(values)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()

	log.Debug().Int("rows", len(table.Rows)).Msg("Refreshed order table")
	return nil
}

// Snapshot refreshes the view model and renders it.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	table := s.table
	s.mu.Unlock()

	snap := &Snapshot{
		Metrics:     orders.Aggregate(table),
		Daily:       orders.DailySeries(table),
		TopServices: orders.TopServices(table, 5),
		Pending:     []PendingOrder{},
	}
	for _, row := range table.Pending() {
		snap.Pending = append(snap.Pending, s.presentRow(row))
	}
	return snap, nil
}

func (s *Service) presentRow(row orders.Row) PendingOrder {
	p := PendingOrder{
		Key:       row.Key,
		Timestamp: row.Timestamp,
		Service:   row.Service,
		Target:    row.Target,
		Quantity:  row.Quantity,
		Transfer:  row.CleanTotal,
		Method:    row.Method,
	}

	if entry, ok := s.catalog.Lookup(row.Service); ok && s.vendor != nil {
		p.AutoEligible = true
		p.EstimatedCost = entry.EstimateCost(row.Quantity)
	}

	message := fmt.Sprintf("Halo! Orderan %s kamu sudah kami proses ya. Terima kasih sudah order 🙏", row.Service)
	if link, ok := orders.WhatsAppLink(row.Phone, message); ok {
		p.WhatsAppLink = link
	}

	return p
}

// Complete runs the one state transition an order ever makes:
// PENDING/empty → SUCCESS. The row is re-located by stable key in a fresh
// fetch, so a form submission landing since the last render shifts sheet
// rows without redirecting the write. When auto is set and the service is
// mapped, vendor dispatch must succeed before anything is written; a
// vendor failure leaves the row pending. The three cell writes have no
// rollback; a mid-sequence failure is surfaced as-is.
func (s *Service) Complete(ctx context.Context, key string, modal int64, auto bool) (*CompleteResult, error) {
	if !s.acquire(key) {
		return nil, ErrInFlight
	}
	defer s.release(key)

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	row, found := s.table.FindPending(key)
	s.mu.Unlock()
	if !found {
		return nil, ErrRowNotFound
	}

	result := &CompleteResult{Key: key, Profit: row.CleanTotal - modal}

	if auto && s.vendor != nil {
		if entry, mapped := s.catalog.Lookup(row.Service); mapped {
			dispatch := s.vendor.PlaceOrder(ctx, entry.ServiceID, row.Target, row.Quantity)
			if !dispatch.OK {
				if s.notifier != nil {
					s.notifier.NotifyDispatchFailure(ctx, row.Service, row.Target, dispatch.Message)
				}
				return nil, &DispatchError{Message: dispatch.Message}
			}
			result.VendorOrderID = dispatch.OrderID
		}
		// Unmapped services fall through: manual fulfillment, always allowed.
	}

	update := sheets.OrderUpdate{
		SheetRow: row.SheetRow,
		Status:   "SUCCESS",
		Modal:    modal,
		Profit:   result.Profit,
	}
	if err := sheets.ApplyOrderUpdate(ctx, s.sheet, s.spreadsheetID, s.sheetName, update); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyOrderCompleted(ctx, row.Service, row.Target, result.Profit)
	}

	log.Info().
		Str("key", key).
		Str("service", row.Service).
		Int64("modal", modal).
		Int64("profit", result.Profit).
		Str("vendor_order_id", result.VendorOrderID).
		Msg("Order completed")

	// Best effort: the next Snapshot re-fetches anyway.
	if err := s.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh table after completion")
	}

	return result, nil
}

// VendorBalance reports the fulfillment account balance, 0 when dispatch
// is disabled or the check fails.
func (s *Service) VendorBalance(ctx context.Context) int64 {
	if s.vendor == nil {
		return 0
	}
	return s.vendor.Balance(ctx)
}

func (s *Service) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] {
		return false
	}
	s.inflight[key] = true
	return true
}

func (s *Service) release(key string) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}
