package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	require.NotPanics(t, func() {
		RecordFetch("ok")
		RecordExtraction("ok")
		RecordUpsert("created")
		SetBatchSize(3)
	})
}

func TestServerEndpoints(t *testing.T) {
	srv := NewServer(0)
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	RecordUpsert("updated")

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp2.Body.Close()
	body, err := io.ReadAll(resp2.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "harvester_upserts_total"))
}
