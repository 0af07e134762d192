package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozradio/repeater-atlas/internal/fetcher"
)

const statusPage = `<html><body><table>
<tr class="hdr"><th>#</th><th>Callsign</th><th>Location</th><th>Node</th></tr>
<tr><td>1</td><td>VK2RAG</td><td>Somersby (28)</td><td>28</td></tr>
<tr bgcolor="#eee"><td>2</td><td>VK2RPM</td><td>Port Macquarie &amp; district</td><td>35</td></tr>
<tr><td>3</td><td>VK2RAG</td><td>Somersby duplicate row</td><td>28</td></tr>
<tr><td>4</td>
    <td> VK3RML </td>
    <td>Mt Leinster</td>
    <td>61</td></tr>
</table></body></html>`

func TestParse(t *testing.T) {
	listings, err := Parse(statusPage)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	assert.Equal(t, "VK2RAG", listings[0].Callsign)
	assert.Equal(t, "Somersby (28)", listings[0].Info)
	assert.Equal(t, "28", listings[0].NetworkID)

	// Entity decoded, order preserved, duplicate collapsed to first row.
	assert.Equal(t, "Port Macquarie & district", listings[1].Info)
	assert.Equal(t, "VK3RML", listings[2].Callsign)
	assert.Equal(t, "61", listings[2].NetworkID)
}

func TestParse_ZeroRowsIsFatal(t *testing.T) {
	_, err := Parse("<html><body><p>maintenance</p></body></html>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no station rows")
}

func TestParse_IgnoresNonStationRows(t *testing.T) {
	// Header rows and rows whose second column is not a callsign are skipped.
	body := `<table>
<tr><td>x</td><td>not-a-call</td><td>info</td><td>1</td></tr>
<tr><td>1</td><td>VK4RBX</td><td>Mt Mowbullan</td><td>12</td></tr>
</table>`
	listings, err := Parse(body)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "VK4RBX", listings[0].Callsign)
}

func TestSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(statusPage))
	}))
	defer srv.Close()

	src := NewSource(fetcher.New(fetcher.Options{Timeout: 5 * time.Second}), srv.URL)
	listings, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 3)
}

func TestSource_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := NewSource(fetcher.New(fetcher.Options{Timeout: 2 * time.Second, MaxRetries: 1}), srv.URL)
	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}
