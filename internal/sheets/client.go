package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// API is the subset of the Google Sheets API the dispatcher needs
type API interface {
	// CreateSpreadsheet creates a spreadsheet with one worksheet per tab and returns its id
	CreateSpreadsheet(ctx context.Context, title string, tabs []Tab) (string, error)
	AppendRows(ctx context.Context, spreadsheetID string, tab Tab, rows [][]any) error
}

// ClientConfig holds Google Sheets client settings
type ClientConfig struct {
	// CredentialsFile is a service account JSON key. Empty uses application default credentials.
	CredentialsFile   string
	RequestsPerSecond float64
	Burst             int
}

// GoogleClient calls the Sheets API, throttled by a token bucket
type GoogleClient struct {
	svc     *gsheets.Service
	limiter *rate.Limiter
}

// NewGoogleClient builds an authenticated Sheets client
func NewGoogleClient(ctx context.Context, cfg ClientConfig) (*GoogleClient, error) {
	var (
		creds *google.Credentials
		err   error
	)
	if cfg.CredentialsFile != "" {
		data, readErr := os.ReadFile(cfg.CredentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("sheets: read credentials: %w", readErr)
		}
		creds, err = google.CredentialsFromJSON(ctx, data, gsheets.SpreadsheetsScope)
	} else {
		creds, err = google.FindDefaultCredentials(ctx, gsheets.SpreadsheetsScope)
	}
	if err != nil {
		return nil, fmt.Errorf("sheets: load credentials: %w", err)
	}

	svc, err := gsheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &GoogleClient{svc: svc, limiter: rate.NewLimiter(rate.Limit(rps), burst)}, nil
}

// CreateSpreadsheet creates the workbook and writes a header row to every tab
func (c *GoogleClient) CreateSpreadsheet(ctx context.Context, title string, tabs []Tab) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	sheetList := make([]*gsheets.Sheet, 0, len(tabs))
	for _, tab := range tabs {
		sheetList = append(sheetList, &gsheets.Sheet{Properties: &gsheets.SheetProperties{Title: string(tab)}})
	}
	created, err := c.svc.Spreadsheets.Create(&gsheets.Spreadsheet{
		Properties: &gsheets.SpreadsheetProperties{Title: title},
		Sheets:     sheetList,
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("sheets: create spreadsheet: %w", err)
	}

	data := make([]*gsheets.ValueRange, 0, len(tabs))
	for _, tab := range tabs {
		data = append(data, &gsheets.ValueRange{
			Range:  string(tab) + "!A1",
			Values: [][]any{Headers[tab]},
		})
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return created.SpreadsheetId, err
	}
	_, err = c.svc.Spreadsheets.Values.BatchUpdate(created.SpreadsheetId, &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return created.SpreadsheetId, fmt.Errorf("sheets: write headers: %w", err)
	}
	return created.SpreadsheetId, nil
}

// AppendRows appends rows after the last filled row of tab
func (c *GoogleClient) AppendRows(ctx context.Context, spreadsheetID string, tab Tab, rows [][]any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.svc.Spreadsheets.Values.Append(spreadsheetID, string(tab)+"!A1", &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: append to %s: %w", tab, err)
	}
	return nil
}
