package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchModels(t *testing.T) {
	assert := assert.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": [
			{"id": "openai/gpt-4o", "name": "GPT-4o", "context_length": 128000,
			 "pricing": {"prompt": "0.0000025", "completion": "0.00001"}},
			{"id": "standalone-id", "pricing": {"prompt": 0, "completion": 0}}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	raw, err := c.FetchModels(context.Background())
	require.NoError(t, err)
	require.Len(t, raw, 2)

	assert.Equal("openai/gpt-4o", raw[0].ID)
	assert.Equal(int64(128000), raw[0].ContextLength)
	// string and numeric price encodings both decode
	assert.Equal(PriceValue(0.0000025), raw[0].Pricing.Prompt)
	assert.Equal(PriceValue(0), raw[1].Pricing.Prompt)
}

func TestFetchModelsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchModels(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamStatus)
}

func TestFetchModelsMalformed(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"data": null}`,
		`{"data": "not-an-array"}`,
		`not json at all`,
		`{"data": [{"pricing": {"prompt": []}}]}`,
	} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			_, err := c.FetchModels(context.Background())
			assert.ErrorIs(t, err, ErrUpstreamMalformed)
		})
	}
}

func TestFetchModelsUnreachable(t *testing.T) {
	// port from a closed listener; nothing is serving there
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchModels(context.Background())
	assert.ErrorIs(t, err, ErrUpstreamUnreachable)
}

func TestFetchModelsEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	raw, err := c.FetchModels(context.Background())
	require.NoError(t, err)
	assert.Empty(t, raw)
}
