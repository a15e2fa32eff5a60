package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leads-manager/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		AirtableAPIKey: "key-test",
		AirtableBaseID: "appBase",
		AirtableTable:  "Leads",
		StatusField:    "Status",
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClientWithBaseURL(testConfig(), zap.NewNop(), srv.URL)
	require.NoError(t, err)
	return client, srv
}

func TestNewClientMissingConfig(t *testing.T) {
	cfg := testConfig()
	cfg.AirtableAPIKey = ""
	cfg.AirtableBaseID = ""

	_, err := NewClient(cfg, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "AIRTABLE_API_KEY")
	assert.Contains(t, err.Error(), "AIRTABLE_BASE_ID")
}

func TestListLeads(t *testing.T) {
	var gotReq *http.Request
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		json.NewEncoder(w).Encode(map[string]interface{}{
			"records": []map[string]interface{}{
				{
					"id":          "rec1",
					"createdTime": "2025-08-01T10:00:00.000Z",
					"fields": map[string]interface{}{
						"FullName": "Ada Lovelace",
						"Amount":   "$12,500",
						"FollowUp": "2025-09-01T00:00:00.000Z",
					},
				},
			},
			"offset": "itrNext",
		})
	})

	leads, offset, err := client.ListLeads(context.Background(), ListOptions{PageSize: 100, View: "Grid"})
	require.NoError(t, err)

	assert.Equal(t, "itrNext", offset)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ada Lovelace", leads[0].Name)
	require.NotNil(t, leads[0].Value)
	assert.Equal(t, float64(12500), *leads[0].Value)
	assert.Equal(t, "2025-09-01", leads[0].FollowUpDate)
	assert.Equal(t, "rec1", leads[0].Raw.ID)

	require.NotNil(t, gotReq)
	assert.Equal(t, "/appBase/Leads", gotReq.URL.Path)
	assert.Equal(t, "100", gotReq.URL.Query().Get("pageSize"))
	assert.Equal(t, "Grid", gotReq.URL.Query().Get("view"))
	assert.Equal(t, "Bearer key-test", gotReq.Header.Get("Authorization"))
	assert.Equal(t, "no-store", gotReq.Header.Get("Cache-Control"))
}

func TestListLeadsPassesOffset(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "itrPage2", r.URL.Query().Get("offset"))
		json.NewEncoder(w).Encode(map[string]interface{}{"records": []interface{}{}})
	})

	leads, offset, err := client.ListLeads(context.Background(), ListOptions{PageSize: 5, Offset: "itrPage2"})
	require.NoError(t, err)
	assert.Empty(t, leads)
	assert.Empty(t, offset, "exhausted pages report no continuation token")
}

func TestUpdateLead(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/appBase/Leads/rec1", r.URL.Path)

		var body struct {
			Fields map[string]interface{} `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]interface{}{"Status": "Won"}, body.Fields)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "rec1",
			"createdTime": "2025-08-01T10:00:00.000Z",
			"fields":      map[string]interface{}{"Name": "Ada", "Status": "Won"},
		})
	})

	lead, err := client.UpdateLead(context.Background(), "rec1", map[string]interface{}{"Status": "Won"})
	require.NoError(t, err)
	assert.Equal(t, "Won", lead.Status)
	assert.Equal(t, "Ada", lead.Name)
}

func TestRequestErrorCarriesStatusAndBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"type":"INVALID_VALUE_FOR_COLUMN"}}`))
	})

	_, _, err := client.ListLeads(context.Background(), ListOptions{PageSize: 1})
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "INVALID_VALUE_FOR_COLUMN")
}

func TestTransportErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client, err := NewClientWithBaseURL(testConfig(), zap.NewNop(), srv.URL)
	require.NoError(t, err)

	_, _, err = client.ListLeads(context.Background(), ListOptions{PageSize: 1})
	require.Error(t, err)

	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr), "network failures are generic, not API errors")
}
