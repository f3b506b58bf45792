package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Client struct {
	service *sheets.Service
}

// NewClient builds a Sheets client from the environment. Credentials come
// from GOOGLE_CREDENTIALS_JSON (a raw service-account JSON string, as
// pasted into a secret store) or GOOGLE_APPLICATION_CREDENTIALS (a file
// path); with neither set, application default credentials apply.
func NewClient(ctx context.Context) (*Client, error) {
	opts, err := credentialOptions()
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{service: service}, nil
}

func credentialOptions() ([]option.ClientOption, error) {
	if raw := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_JSON")); raw != "" {
		// Secret stores tend to escape the private key's newlines; the
		// PEM block needs them back before the JWT signer will accept it.
		raw = strings.ReplaceAll(raw, `\n`, "\n")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(raw))}, nil
	}
	if file := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("credentials file %s: %w", file, err)
		}
		return []option.ClientOption{option.WithCredentialsFile(file)}, nil
	}
	return nil, nil
}

func (c *Client) ReadSheet(ctx context.Context, spreadsheetID, range_ string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, range_).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	return resp.Values, nil
}

// HeaderRow reads row 1 of the worksheet and returns the trimmed header
// labels. Callers use this immediately before a write so column positions
// reflect the live sheet, not an earlier snapshot.
func (c *Client) HeaderRow(ctx context.Context, spreadsheetID, sheetName string) ([]string, error) {
	values, err := c.ReadSheet(ctx, spreadsheetID, fmt.Sprintf("%s!1:1", sheetName))
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("header row is empty")
	}

	headers := make([]string, len(values[0]))
	for i, cell := range values[0] {
		headers[i] = strings.TrimSpace(fmt.Sprintf("%v", cell))
	}
	return headers, nil
}

// UpdateCell writes a single cell addressed by 0-based column index and
// 1-based row number.
func (c *Client) UpdateCell(ctx context.Context, spreadsheetID, sheetName string, column, row int, value interface{}) error {
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}
	cellRange := fmt.Sprintf("%s!%s%d", sheetName, ColumnLetter(column), row)

	_, err := c.service.Spreadsheets.Values.Update(spreadsheetID, cellRange, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update cell %s: %w", cellRange, err)
	}

	return nil
}

// ColumnLetter converts a 0-based column index to A1 notation (0 → A,
// 25 → Z, 26 → AA).
func ColumnLetter(index int) string {
	letters := ""
	n := index + 1
	for n > 0 {
		n--
		letters = string(rune('A'+n%26)) + letters
		n /= 26
	}
	return letters
}
