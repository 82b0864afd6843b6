package sheets

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_gateway.go -package=mocks cardsync/internal/sheets Gateway

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"cardsync/internal/service"
)

// Gateway defines the spreadsheet operations used by the application.
// All writes use USER_ENTERED value input, matching what a user typing into
// the sheet would produce.
type Gateway interface {
	// ReadRange returns the values in an A1-notation range.
	ReadRange(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error)
	// UpdateRange overwrites the values starting at the top-left of the range.
	UpdateRange(ctx context.Context, spreadsheetID, rangeA1 string, values [][]string) error
	// ClearRange clears all values in the range.
	ClearRange(ctx context.Context, spreadsheetID, rangeA1 string) error
	// AppendRows appends rows after the last row of the ranged table.
	AppendRows(ctx context.Context, spreadsheetID, rangeA1 string, values [][]string) error
	// BatchUpdateValues applies several range updates in one call.
	BatchUpdateValues(ctx context.Context, spreadsheetID string, updates []RangeUpdate) error
	// AddSheet creates a new sheet tab with the given title.
	AddSheet(ctx context.Context, spreadsheetID, title string) error
}

// RangeUpdate is a single range write within a batch update.
type RangeUpdate struct {
	Range  string
	Values [][]string
}

// Client is a Gateway backed by the Sheets v4 API.
type Client struct {
	svc *sheetsapi.Service
}

// NewClient creates a Sheets API client.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ReadRange returns the values in an A1-notation range.
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error) {
	res, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return nil, service.WrapUpstream("sheets.values.get", err)
	}
	return toStrings(res.Values), nil
}

// UpdateRange overwrites the values starting at the top-left of the range.
func (c *Client) UpdateRange(ctx context.Context, spreadsheetID, rangeA1 string, values [][]string) error {
	_, err := c.svc.Spreadsheets.Values.Update(spreadsheetID, rangeA1, &sheetsapi.ValueRange{
		Values: toAny(values),
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	return service.WrapUpstream("sheets.values.update", err)
}

// ClearRange clears all values in the range.
func (c *Client) ClearRange(ctx context.Context, spreadsheetID, rangeA1 string) error {
	_, err := c.svc.Spreadsheets.Values.Clear(spreadsheetID, rangeA1, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do()
	return service.WrapUpstream("sheets.values.clear", err)
}

// AppendRows appends rows after the last row of the ranged table.
func (c *Client) AppendRows(ctx context.Context, spreadsheetID, rangeA1 string, values [][]string) error {
	_, err := c.svc.Spreadsheets.Values.Append(spreadsheetID, rangeA1, &sheetsapi.ValueRange{
		Values: toAny(values),
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	return service.WrapUpstream("sheets.values.append", err)
}

// BatchUpdateValues applies several range updates in one call.
func (c *Client) BatchUpdateValues(ctx context.Context, spreadsheetID string, updates []RangeUpdate) error {
	data := make([]*sheetsapi.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheetsapi.ValueRange{
			Range:  u.Range,
			Values: toAny(u.Values),
		})
	}

	_, err := c.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}).Context(ctx).Do()
	return service.WrapUpstream("sheets.values.batchUpdate", err)
}

// AddSheet creates a new sheet tab with the given title.
func (c *Client) AddSheet(ctx context.Context, spreadsheetID, title string) error {
	_, err := c.svc.Spreadsheets.BatchUpdate(spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{
			{
				AddSheet: &sheetsapi.AddSheetRequest{
					Properties: &sheetsapi.SheetProperties{Title: title},
				},
			},
		},
	}).Context(ctx).Do()
	return service.WrapUpstream("sheets.batchUpdate", err)
}

func toAny(values [][]string) [][]interface{} {
	out := make([][]interface{}, len(values))
	for i, row := range values {
		out[i] = make([]interface{}, len(row))
		for j, cell := range row {
			out[i][j] = cell
		}
	}
	return out
}

func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = fmt.Sprint(cell)
		}
	}
	return out
}
