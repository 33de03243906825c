package tabular

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGSheets_ReadAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Contains(t, r.URL.Path, "/sheet-1/values/")

		json.NewEncoder(w).Encode(map[string]any{
			"values": [][]string{
				{"Product Name", "Brand"},
				{"Lagavulin 16", "Lagavulin"},
			},
		})
	}))
	defer srv.Close()

	s := NewGSheetsStore("tok", "sheet-1", WithBaseURL(srv.URL))
	rows, err := s.ReadAll(context.Background(), "Products")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, []string{"Lagavulin 16", "Lagavulin"}, rows[1].Values)
}

func TestGSheets_WriteRows(t *testing.T) {
	var body struct {
		ValueInputOption string `json:"valueInputOption"`
		Data             []struct {
			Range  string     `json:"range"`
			Values [][]string `json:"values"`
		} `json:"data"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "values:batchUpdate")
		payload, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(payload, &body))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s := NewGSheetsStore("tok", "sheet-1", WithBaseURL(srv.URL))
	err := s.WriteRows(context.Background(), "Products", map[int][]string{
		7: {"A", "B"},
		3: {"C", "D"},
	})

	require.NoError(t, err)
	assert.Equal(t, "RAW", body.ValueInputOption)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "'Products'!A3", body.Data[0].Range)
	assert.Equal(t, "'Products'!A7", body.Data[1].Range)
}

func TestGSheets_DeleteRows_DescendingOrder(t *testing.T) {
	var deleted []int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// Metadata request for the sheet grid ID.
			json.NewEncoder(w).Encode(map[string]any{
				"sheets": []map[string]any{
					{"properties": map[string]any{"sheetId": 99, "title": "Products"}},
				},
			})
			return
		}

		var body struct {
			Requests []struct {
				DeleteDimension struct {
					Range struct {
						SheetID    int64  `json:"sheetId"`
						Dimension  string `json:"dimension"`
						StartIndex int    `json:"startIndex"`
						EndIndex   int    `json:"endIndex"`
					} `json:"range"`
				} `json:"deleteDimension"`
			} `json:"requests"`
		}
		payload, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(payload, &body))
		for _, req := range body.Requests {
			assert.Equal(t, int64(99), req.DeleteDimension.Range.SheetID)
			assert.Equal(t, "ROWS", req.DeleteDimension.Range.Dimension)
			assert.Equal(t, req.DeleteDimension.Range.StartIndex+1, req.DeleteDimension.Range.EndIndex)
			deleted = append(deleted, req.DeleteDimension.Range.EndIndex)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s := NewGSheetsStore("tok", "sheet-1", WithBaseURL(srv.URL))
	err := s.DeleteRows(context.Background(), "Products", []int{3, 9, 5})

	require.NoError(t, err)
	assert.Equal(t, []int{9, 5, 3}, deleted, "deletes must run highest row first")
}

func TestGSheets_UnknownSheet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"sheets": []map[string]any{}})
	}))
	defer srv.Close()

	s := NewGSheetsStore("tok", "sheet-1", WithBaseURL(srv.URL))
	err := s.DeleteRows(context.Background(), "Missing", []int{2})

	assert.Error(t, err)
}

func TestGSheets_StatusErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "forbidden"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewGSheetsStore("tok", "sheet-1", WithBaseURL(srv.URL))
	_, err := s.ReadAll(context.Background(), "Products")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
