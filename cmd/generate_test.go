package main

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStatusPage = `<table>
<tr><td>1</td><td>VK2RAG</td><td>Somersby (28)</td><td>28</td></tr>
<tr><td>2</td><td>VK9ZZZ</td><td>Ghost node</td><td>99</td></tr>
</table>`

const testDetailPage = `<html><body><h1>Licence Details</h1>
<table>
<tr><td>Licence No.</td><td>1234567</td></tr>
<tr><td>Client</td><td><a href="client_search.client_lookup?pCLIENT_NO=1">Test Club Inc</a></td></tr>
<tr><td>Site</td><td><a href="site_proc.site_lookup?pSITE_ID=9999">SOMERSBY</a></td></tr>
</table>
<table>
<tr><td>439.825 MHz</td><td>Transmitter</td></tr>
<tr><td>434.825 MHz</td><td>Receiver</td></tr>
</table>
</body></html>`

const testSitePage = `<table>
<tr><th>Site Location</th><td>Somersby</td></tr>
<tr><th>Lat,Long (GDA94)</th><td>-33.360078,151.291215</td></tr>
</table>`

// TestGenerate_EndToEnd drives the full binary path against a fake status
// page and register: one fully-resolvable station and one absent from the
// register.
func TestGenerate_EndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testStatusPage))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostFormValue("SEARCH_TEXT") == "VK2RAG" {
			_, _ = w.Write([]byte(testDetailPage))
			return
		}
		_, _ = w.Write([]byte("<html><body>No licences matched.</body></html>"))
	})
	mux.HandleFunc("/site", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testSitePage))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	outDir := filepath.Join(t.TempDir(), "out")

	rootCmd.SetArgs([]string{
		"generate",
		"--status.url", srv.URL + "/status",
		"--register.search_url", srv.URL + "/search",
		"--register.licence_url", srv.URL + "/licence?pLICENCE_ID=%s",
		"--register.site_url", srv.URL + "/site?pSITE_ID=%s",
		"--register.delay_millis", "1",
		"--output.dir", outDir,
	})
	require.NoError(t, rootCmd.Execute())

	// Tabular: both stations, the unresolved one with empty cells.
	csvData, err := os.ReadFile(filepath.Join(outDir, "atlas.csv"))
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(csvData))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"VK2RAG", "Somersby (28)", "28", "Test Club Inc", "Somersby",
		"439.8250", "434.8250", "+5.000", "-33.360078", "151.291215",
		"1234567", "9999",
	}, rows[1])
	assert.Equal(t, "VK9ZZZ", rows[2][0])
	assert.Equal(t, "", rows[2][5], "unresolved station has empty frequency cells")

	// KML and GeoJSON carry only the station with coordinates.
	kml, err := os.ReadFile(filepath.Join(outDir, "atlas.kml"))
	require.NoError(t, err)
	assert.Contains(t, string(kml), "<name>VK2RAG</name>")
	assert.Contains(t, string(kml), "<b>Offset:</b> +5.000 MHz")
	assert.NotContains(t, string(kml), "VK9ZZZ")

	geo, err := os.ReadFile(filepath.Join(outDir, "atlas.geojson"))
	require.NoError(t, err)
	assert.Contains(t, string(geo), `"callsign": "VK2RAG"`)
	assert.NotContains(t, string(geo), "VK9ZZZ")
}

func TestGenerate_FatalOnEmptyDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>maintenance</body></html>"))
	}))
	defer srv.Close()

	outDir := filepath.Join(t.TempDir(), "out")
	rootCmd.SetArgs([]string{
		"generate",
		"--status.url", srv.URL,
		"--register.delay_millis", "1",
		"--output.dir", outDir,
	})
	require.Error(t, rootCmd.Execute())

	_, err := os.Stat(filepath.Join(outDir, "atlas.csv"))
	assert.True(t, os.IsNotExist(err), "no output is produced on a fatal directory error")
}
