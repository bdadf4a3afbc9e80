package i14y

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(Config{
		CatalogURL: srv.URL,
		PublicURL:  srv.URL,
		Timeout:    2 * time.Second,
		RateLimit:  1000,
		RateBurst:  1000,
	}, nil, nil)
}

func TestSearchConceptsPagination(t *testing.T) {
	results := make([]Record, 0, 45)
	for i := 0; i < 45; i++ {
		results = append(results, Record{"id": "concept", "n": float64(i)})
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Concept", r.URL.Query().Get("types"))
		assert.Equal(t, "alter", r.URL.Query().Get("query"))
		require.NoError(t, json.NewEncoder(w).Encode(results))
	}))
	defer srv.Close()

	c := testClient(srv)

	page1 := c.SearchConcepts(context.Background(), " alter ", 1, 20)
	assert.Len(t, page1, 20)
	assert.Equal(t, float64(0), page1[0]["n"])

	page3 := c.SearchConcepts(context.Background(), "alter", 3, 20)
	assert.Len(t, page3, 5)
	assert.Equal(t, float64(40), page3[0]["n"])

	beyond := c.SearchConcepts(context.Background(), "alter", 4, 20)
	assert.Empty(t, beyond)
}

func TestSearchDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(srv)
	assert.Empty(t, c.SearchConcepts(context.Background(), "x", 1, 20))
	assert.Empty(t, c.SearchDatasets(context.Background(), "x", 1, 20))
}

func TestConceptDetailsUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/concepts/abc", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"abc","title":{"de":"Alter"}}}`))
	}))
	defer srv.Close()

	record, err := testClient(srv).ConceptDetails(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", record["id"])
}

func TestConceptDetailsBareRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer srv.Close()

	record, err := testClient(srv).ConceptDetails(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", record["id"])
}

func TestCodelistEntriesEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "entries key", body: `{"entries":[{"code":"A"},{"code":"B"}]}`, want: 2},
		{name: "data key", body: `{"data":[{"code":"A"}]}`, want: 1},
		{name: "bare list", body: `[{"code":"A"},{"code":"B"},{"code":"C"}]`, want: 3},
		{name: "unknown shape", body: `{"something":"else"}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			entries, err := testClient(srv).CodelistEntries(context.Background(), "abc")
			require.NoError(t, err)
			assert.Len(t, entries, tt.want)
		})
	}
}

func TestCodelistMissingIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	entries, err := testClient(srv).CodelistEntries(context.Background(), "abc")
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestLookupCaching(t *testing.T) {
	var details, codelists atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/concepts/abc":
			details.Add(1)
			_, _ = w.Write([]byte(`{"data":{"id":"abc"}}`))
		case "/concepts/abc/codelist-entries/exports/json":
			codelists.Add(1)
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := testClient(srv)

	for i := 0; i < 3; i++ {
		record, err := c.ConceptDetails(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", record["id"])

		entries, err := c.CodelistEntries(context.Background(), "abc")
		require.NoError(t, err)
		assert.Nil(t, entries)
	}

	assert.Equal(t, int32(1), details.Load())
	// The missing codelist is cached too.
	assert.Equal(t, int32(1), codelists.Load())
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer srv.Close()

	record, err := testClient(srv).ConceptDetails(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", record["id"])
	assert.Equal(t, int32(3), calls.Load())
}

func TestSourceFacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/concepts/plz":
			_, _ = w.Write([]byte(`{"data":{"id":"plz","pattern":"^\\d{4}$","conceptValueType":"numeric","minLength":4}}`))
		case "/concepts/plz/codelist-entries/exports/json":
			_, _ = w.Write([]byte(`{"entries":[{"code":"1000"},{"code":"8000"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	facts, err := NewSource(testClient(srv)).Facts(context.Background(), "plz")
	require.NoError(t, err)
	assert.Equal(t, `^\d{4}$`, facts.Pattern)
	assert.Equal(t, []string{"1000", "8000"}, facts.InValues)
	assert.Equal(t, "xsd:decimal", facts.Datatype)
	require.NotNil(t, facts.MinLength)
	assert.Equal(t, 4, *facts.MinLength)
	assert.Nil(t, facts.MaxLength)
}
