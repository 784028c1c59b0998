package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	copernicus "github.com/MrChebur/Copernicus-OData-wrapper"
)

func newQueryFlags() queryFlags {
	return queryFlags{top: -1, skip: -1}
}

func TestQueryFlagsBuild(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*queryFlags)
		want  string
	}{
		{
			name:  "empty",
			setup: func(q *queryFlags) {},
			want:  "",
		},
		{
			name: "collection and publication day range",
			setup: func(q *queryFlags) {
				q.collection = "SENTINEL-2"
				q.publishedFrom = "2020-01-01"
				q.publishedTo = "2020-01-02"
				q.top = 3
			},
			want: "$filter=Collection/Name eq 'SENTINEL-2' and PublicationDate ge 2020-01-01T00:00:00.000Z" +
				" and PublicationDate le 2020-01-02T23:59:59.999Z&$top=3",
		},
		{
			name: "exclusive sensing range",
			setup: func(q *queryFlags) {
				q.sensedFrom = "2020-01-01T10:00:00Z"
				q.sensedTo = "2020-01-01T11:00:00Z"
				q.exclusive = true
			},
			want: "$filter=ContentDate/Start gt 2020-01-01T10:00:00.000Z and ContentDate/End lt 2020-01-01T11:00:00.000Z",
		},
		{
			name: "name searches and attributes",
			setup: func(q *queryFlags) {
				q.nameContains = "MSIL1C"
				q.nameEndsWith = ".SAFE"
				q.attrs = []string{"cloudCover le 20", "productType eq S2MSI1C"}
			},
			want: "$filter=contains(Name,'MSIL1C') and endswith(Name,'.SAFE') and " +
				"Attributes/OData.CSC.DoubleAttribute/any(att:att/Name eq 'cloudCover' and att/OData.CSC.DoubleAttribute/Value le 20.0) and " +
				"Attributes/OData.CSC.StringAttribute/any(att:att/Name eq 'productType' and att/OData.CSC.StringAttribute/Value eq 'S2MSI1C')",
		},
		{
			name: "geometry orderby count expand",
			setup: func(q *queryFlags) {
				q.geometry = "POINT(12.5 41.9)"
				q.orderBy = "PublicationDate desc"
				q.skip = 10
				q.count = true
				q.expand = []string{"Attributes", "assets"}
			},
			want: "$filter=OData.CSC.Intersects(area=geography'SRID=4326;POINT(12.5 41.9)')" +
				"&$orderby=PublicationDate desc&$skip=10&$count=True&$expand=Assets,Attributes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQueryFlags()
			tt.setup(&q)
			opts, err := q.build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts.Encode())
		})
	}
}

func TestQueryFlagsBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*queryFlags)
		want  error
	}{
		{"multipolygon", func(q *queryFlags) { q.geometry = "MULTIPOLYGON(((0 0,1 0,1 1,0 0)))" }, copernicus.ErrUnsupportedGeometry},
		{"top too large", func(q *queryFlags) { q.top = 1001 }, copernicus.ErrOutOfRange},
		{"negative top", func(q *queryFlags) { q.top = -2 }, copernicus.ErrOutOfRange},
		{"negative skip", func(q *queryFlags) { q.skip = -5 }, copernicus.ErrOutOfRange},
		{"skip too large", func(q *queryFlags) { q.skip = 10001 }, copernicus.ErrOutOfRange},
		{"bad orderby field", func(q *queryFlags) { q.orderBy = "Name asc" }, copernicus.ErrInvalidArgument},
		{"bad orderby direction", func(q *queryFlags) { q.orderBy = "PublicationDate up" }, copernicus.ErrInvalidArgument},
		{"unknown attribute", func(q *queryFlags) { q.attrs = []string{"foo eq 1"} }, copernicus.ErrInvalidArgument},
		{"malformed attribute", func(q *queryFlags) { q.attrs = []string{"cloudCover"} }, copernicus.ErrInvalidArgument},
		{"string relational", func(q *queryFlags) { q.attrs = []string{"productType gt x"} }, copernicus.ErrUnsupportedOperator},
		{"bad number", func(q *queryFlags) { q.attrs = []string{"orbitNumber eq many"} }, copernicus.ErrTypeMismatch},
		{"bad date", func(q *queryFlags) { q.publishedFrom = "yesterday" }, copernicus.ErrInvalidArgument},
		{"bad expand", func(q *queryFlags) { q.expand = []string{"Nodes"} }, copernicus.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQueryFlags()
			tt.setup(&q)
			_, err := q.build()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeWithLog(t, args...)
	return out, err
}

// executeWithLog also returns what the command logged to stderr.
func executeWithLog(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

const searchPage = `{"@odata.context": "$metadata#Products", "@odata.count": 1, "value": [
  {"Id": "2b17b57d-fff4-4645-b539-91f305c27c69", "Name": "S2A_MSIL1C_20200101.SAFE",
   "PublicationDate": "2020-01-02T10:00:00.000Z", "ContentLength": 42, "Online": true}]}`

func newCatalogue(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/Nodes"):
			_, _ = io.WriteString(w, `{"result": [{"Id": "S2A.SAFE", "Name": "S2A.SAFE", "ChildrenNumber": 3, "Nodes": {"uri": "x"}}]}`)
		default:
			_, _ = io.WriteString(w, searchPage)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestURLCommand(t *testing.T) {
	out, err := execute(t, "url", "--endpoint", "https://example.test/Products", "--collection", "SENTINEL-1", "--top", "5")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/Products?$filter=Collection/Name%20eq%20'SENTINEL-1'&$top=5\n", out)
}

func TestSearchCommand(t *testing.T) {
	srv := newCatalogue(t)

	out, err := execute(t, "search", "--endpoint", srv.URL+"/odata/v1/Products", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Name": "S2A_MSIL1C_20200101.SAFE"`)

	out, err = execute(t, "search", "--endpoint", srv.URL+"/odata/v1/Products", "--output", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "S2A_MSIL1C_20200101.SAFE")
	assert.Contains(t, out, "1 products (1 matching)")
}

func TestSearchSave(t *testing.T) {
	srv := newCatalogue(t)
	dsn := filepath.Join(t.TempDir(), "products.db")
	t.Cleanup(func() { searchSave = false })

	_, err := execute(t, "search", "--endpoint", srv.URL+"/odata/v1/Products", "--save", "--store", dsn, "--output", "json")
	require.NoError(t, err)

	s, err := openStore()
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSearchTelemetry(t *testing.T) {
	srv := newCatalogue(t)
	dsn := filepath.Join(t.TempDir(), "products.db")
	t.Cleanup(func() {
		searchSave = false
		_ = rootCmd.PersistentFlags().Set("telemetry", "false")
	})

	_, logs, err := executeWithLog(t, "search", "--endpoint", srv.URL+"/odata/v1/Products",
		"--save", "--store", dsn, "--telemetry", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, "name=db.insert")
	assert.Contains(t, logs, "name=csc.")
	assert.Contains(t, logs, "msg=metric")
}

func TestNamesCommand(t *testing.T) {
	srv := newCatalogue(t)
	out, err := execute(t, "names", "--endpoint", srv.URL+"/odata/v1/Products", "-o", "json", "S2A_MSIL1C_20200101.SAFE")
	require.NoError(t, err)
	assert.Contains(t, out, "S2A_MSIL1C_20200101.SAFE")

	_, err = execute(t, "names", "--endpoint", srv.URL+"/odata/v1/Products")
	assert.Error(t, err)
}

func TestNodesCommand(t *testing.T) {
	srv := newCatalogue(t)
	out, err := execute(t, "nodes", "--endpoint", srv.URL+"/odata/v1/Products", "-o", "json", "db0c8ef3-8ec0-5185-a537-812dad3c58f8")
	require.NoError(t, err)
	assert.Contains(t, out, `"ChildrenNumber": 3`)
}

func TestAttributesCommand(t *testing.T) {
	out, err := execute(t, "attributes")
	require.NoError(t, err)
	assert.Contains(t, out, "cloudCover")
	assert.Contains(t, out, "DateTimeOffset")
	assert.Contains(t, out, "eq lt le ge gt")
}
