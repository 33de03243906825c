package tabular

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rotisserie/eris"
)

const defaultSheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// GSheetsOption configures the Google Sheets store.
type GSheetsOption func(*GSheetsStore)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(u string) GSheetsOption {
	return func(s *GSheetsStore) {
		s.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) GSheetsOption {
	return func(s *GSheetsStore) {
		s.http = hc
	}
}

// GSheetsStore is a Store over the Google Sheets REST API. Token
// acquisition is the caller's concern; the store only attaches it.
type GSheetsStore struct {
	token         string
	spreadsheetID string
	baseURL       string
	http          *http.Client

	sheetIDs map[string]int64
}

// NewGSheetsStore creates a Store for one spreadsheet.
func NewGSheetsStore(token, spreadsheetID string, opts ...GSheetsOption) *GSheetsStore {
	s := &GSheetsStore{
		token:         token,
		spreadsheetID: spreadsheetID,
		baseURL:       defaultSheetsBaseURL,
		http:          &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GSheetsStore) do(ctx context.Context, method, u string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return eris.Wrap(err, "gsheets: marshal request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return eris.Wrap(err, "gsheets: build request")
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "gsheets: request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "gsheets: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("gsheets: %s %s returned status %d: %s", method, u, resp.StatusCode, truncate(data, 200))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return eris.Wrap(err, "gsheets: decode response")
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

// ReadAll fetches every row of the named sheet.
func (s *GSheetsStore) ReadAll(ctx context.Context, sheet string) ([]Row, error) {
	rangeRef := url.PathEscape(fmt.Sprintf("'%s'", sheet))
	u := fmt.Sprintf("%s/%s/values/%s?majorDimension=ROWS", s.baseURL, s.spreadsheetID, rangeRef)

	var vr valuesResponse
	if err := s.do(ctx, http.MethodGet, u, nil, &vr); err != nil {
		return nil, eris.Wrapf(err, "gsheets: read sheet %q", sheet)
	}

	rows := make([]Row, 0, len(vr.Values))
	for i, values := range vr.Values {
		rows = append(rows, Row{Index: i + 1, Values: values})
	}
	return rows, nil
}

type valueRange struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

type batchUpdateValuesRequest struct {
	ValueInputOption string       `json:"valueInputOption"`
	Data             []valueRange `json:"data"`
}

// WriteRows rewrites the given rows via a single values batchUpdate.
func (s *GSheetsStore) WriteRows(ctx context.Context, sheet string, rows map[int][]string) error {
	if len(rows) == 0 {
		return nil
	}

	indices := make([]int, 0, len(rows))
	for idx := range rows {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	body := batchUpdateValuesRequest{ValueInputOption: "RAW"}
	for _, idx := range indices {
		body.Data = append(body.Data, valueRange{
			Range:  fmt.Sprintf("'%s'!A%d", sheet, idx),
			Values: [][]string{rows[idx]},
		})
	}

	u := fmt.Sprintf("%s/%s/values:batchUpdate", s.baseURL, s.spreadsheetID)
	if err := s.do(ctx, http.MethodPost, u, body, nil); err != nil {
		return eris.Wrapf(err, "gsheets: write %d rows to %q", len(rows), sheet)
	}
	return nil
}

type sheetProperties struct {
	SheetID int64  `json:"sheetId"`
	Title   string `json:"title"`
}

type spreadsheetMeta struct {
	Sheets []struct {
		Properties sheetProperties `json:"properties"`
	} `json:"sheets"`
}

// sheetID resolves a sheet title to its numeric grid ID, caching the
// spreadsheet metadata after the first lookup.
func (s *GSheetsStore) sheetID(ctx context.Context, sheet string) (int64, error) {
	if s.sheetIDs == nil {
		u := fmt.Sprintf("%s/%s?fields=sheets.properties", s.baseURL, s.spreadsheetID)
		var meta spreadsheetMeta
		if err := s.do(ctx, http.MethodGet, u, nil, &meta); err != nil {
			return 0, eris.Wrap(err, "gsheets: fetch spreadsheet metadata")
		}
		s.sheetIDs = make(map[string]int64, len(meta.Sheets))
		for _, sh := range meta.Sheets {
			s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetID
		}
	}
	id, ok := s.sheetIDs[sheet]
	if !ok {
		return 0, eris.Errorf("gsheets: spreadsheet has no sheet %q", sheet)
	}
	return id, nil
}

type dimensionRange struct {
	SheetID    int64  `json:"sheetId"`
	Dimension  string `json:"dimension"`
	StartIndex int    `json:"startIndex"`
	EndIndex   int    `json:"endIndex"`
}

type deleteDimensionRequest struct {
	Range dimensionRange `json:"range"`
}

type batchUpdateRequest struct {
	Requests []struct {
		DeleteDimension deleteDimensionRequest `json:"deleteDimension"`
	} `json:"requests"`
}

// DeleteRows removes rows via deleteDimension requests ordered highest
// index first, so each deletion leaves the remaining indices valid.
func (s *GSheetsStore) DeleteRows(ctx context.Context, sheet string, indices []int) error {
	if len(indices) == 0 {
		return nil
	}

	gid, err := s.sheetID(ctx, sheet)
	if err != nil {
		return err
	}

	desc := append([]int(nil), indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))

	var body batchUpdateRequest
	for _, idx := range desc {
		// The API's dimension range is 0-based half-open; row index is
		// 1-based.
		body.Requests = append(body.Requests, struct {
			DeleteDimension deleteDimensionRequest `json:"deleteDimension"`
		}{
			DeleteDimension: deleteDimensionRequest{
				Range: dimensionRange{
					SheetID:    gid,
					Dimension:  "ROWS",
					StartIndex: idx - 1,
					EndIndex:   idx,
				},
			},
		})
	}

	u := fmt.Sprintf("%s/%s:batchUpdate", s.baseURL, s.spreadsheetID)
	if err := s.do(ctx, http.MethodPost, u, body, nil); err != nil {
		return eris.Wrapf(err, "gsheets: delete %d rows from %q", len(indices), sheet)
	}
	return nil
}
