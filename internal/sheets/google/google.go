package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	ports "sheetwallet/internal/sheets"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const tokenURI = "https://oauth2.googleapis.com/token"

// Client is a RowStore backed by one Google spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
}

var _ ports.RowStore = (*Client)(nil)

// ServiceAccount holds the inline service-account fields. All six are needed
// for the inline form to be used.
type ServiceAccount struct {
	Type         string
	ProjectID    string
	PrivateKeyID string
	PrivateKey   string
	ClientEmail  string
	ClientID     string
}

// Complete reports whether every inline field is set.
func (sa ServiceAccount) Complete() bool {
	return sa.Type != "" && sa.ProjectID != "" && sa.PrivateKeyID != "" &&
		sa.PrivateKey != "" && sa.ClientEmail != "" && sa.ClientID != ""
}

// JSON renders the service account as a credentials file. Escaped "\n"
// sequences in the private key are turned into newlines.
func (sa ServiceAccount) JSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":           sa.Type,
		"project_id":     sa.ProjectID,
		"private_key_id": sa.PrivateKeyID,
		"private_key":    strings.ReplaceAll(sa.PrivateKey, `\n`, "\n"),
		"client_email":   sa.ClientEmail,
		"client_id":      sa.ClientID,
		"token_uri":      tokenURI,
	})
}

// Credentials selects how the client authenticates. Inline fields win over
// raw JSON, which wins over a key file.
type Credentials struct {
	Inline ServiceAccount
	JSON   string
	File   string
}

func (c Credentials) resolve(ctx context.Context) ([]byte, error) {
	switch {
	case c.Inline.Complete():
		slog.InfoContext(ctx, "Using inline service account fields", "client_email", c.Inline.ClientEmail)
		return c.Inline.JSON()
	case strings.TrimSpace(c.JSON) != "":
		slog.InfoContext(ctx, "Using inline JSON credentials", "json_length", len(c.JSON))
		return []byte(c.JSON), nil
	case strings.TrimSpace(c.File) != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", c.File)
		b, err := os.ReadFile(c.File)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SA_* fields, GOOGLE_SERVICE_ACCOUNT_JSON, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// New builds a Sheets client for spreadsheetID. The service handle is meant to
// live for the whole process.
func New(ctx context.Context, spreadsheetID string, creds Credentials) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	credentialsJSON, err := creds.resolve(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", spreadsheetID)
	return NewWithService(svc, spreadsheetID), nil
}

// NewWithService wraps an existing service handle.
func NewWithService(svc *gsheet.Service, spreadsheetID string) *Client {
	return &Client{svc: svc, spreadsheetID: spreadsheetID}
}

func (c *Client) Read(ctx context.Context, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		if isMissingRange(err) {
			return nil, fmt.Errorf("read %s: %w: %v", rng, ports.ErrRangeNotFound, err)
		}
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return toStrings(resp.Values), nil
}

func (c *Client) Write(ctx context.Context, rng string, rows [][]string, mode ports.InputMode) error {
	vr := &gsheet.ValueRange{Values: toValues(rows)}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption(string(mode)).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", rng, err)
	}
	return nil
}

func (c *Client) Append(ctx context.Context, rng string, row []string) error {
	vr := &gsheet.ValueRange{Values: toValues([][]string{row})}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption(string(ports.UserEntered)).
		InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", rng, err)
	}
	return nil
}

func (c *Client) DeleteRow(ctx context.Context, sheet string, rowIndex int) error {
	sheetID, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex - 1),
					EndIndex:   int64(rowIndex),
					// zero is a valid sheet id and start index
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d of %q: %w", rowIndex, sheet, err)
	}
	return nil
}

func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q: %w", title, ports.ErrSheetNotFound)
}

func isMissingRange(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusBadRequest || gerr.Code == http.StatusNotFound
}

func toStrings(in [][]interface{}) [][]string {
	out := make([][]string, len(in))
	for i, row := range in {
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
