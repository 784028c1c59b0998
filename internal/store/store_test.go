package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"

	"github.com/MrChebur/Copernicus-OData-wrapper/internal/edm"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/observability"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/response"
)

const pageBody = `{
  "@odata.context": "$metadata#Products",
  "value": [
    {
      "Id": "2b17b57d-fff4-4645-b539-91f305c27c69",
      "Name": "S2A_MSIL1C_20200101T000000.SAFE",
      "ContentType": "application/octet-stream",
      "ContentLength": 1024,
      "PublicationDate": "2020-01-02T10:00:00.000Z",
      "Online": true,
      "ContentDate": {"Start": "2020-01-01T00:00:00.000Z", "End": "2020-01-01T00:10:00.000Z"},
      "Attributes": [
        {"@odata.type": "#OData.CSC.DoubleAttribute", "Name": "cloudCover", "Value": 12.5, "ValueType": "Double"}
      ]
    },
    {
      "Id": "7e3c8a41-9a4e-4d5b-8f0e-1c2d3e4f5a6b",
      "Name": "S1A_IW_GRDH_20200103.SAFE",
      "ContentLength": 2048,
      "PublicationDate": "2020-01-04T10:00:00.000Z",
      "Online": false
    }
  ]
}`

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testProducts(t *testing.T) []response.Product {
	t.Helper()
	page, err := response.DecodePage([]byte(pageBody))
	require.NoError(t, err)
	require.Len(t, page.Value, 2)
	return page.Value
}

func TestDialector(t *testing.T) {
	tests := []struct {
		dsn      string
		postgres bool
	}{
		{"postgres://user:pw@localhost:5432/csc", true},
		{"postgresql://localhost/csc", true},
		{"host=localhost user=csc dbname=csc sslmode=disable", true},
		{"products.db", false},
		{"sqlite://products.db", false},
		{":memory:", false},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			d := Dialector(tt.dsn)
			if tt.postgres {
				assert.IsType(t, &postgres.Dialector{}, d)
			} else {
				require.IsType(t, &sqlite.Dialector{}, d)
				assert.NotContains(t, d.(*sqlite.Dialector).DSN, "sqlite://")
			}
		})
	}
}

func TestOpenEmptyDSN(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := s.Save(ctx, testProducts(t))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rec, err := s.Get(ctx, uuid.MustParse("2b17b57d-fff4-4645-b539-91f305c27c69"))
	require.NoError(t, err)
	assert.Equal(t, "S2A_MSIL1C_20200101T000000.SAFE", rec.Name)
	assert.Equal(t, int64(1024), rec.ContentLength)
	assert.True(t, rec.Online)
	assert.True(t, rec.ContentStart.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))

	attrs, err := rec.ProductAttributes()
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, "cloudCover", attrs[0].Name)
	require.NotNil(t, attrs[0].Value)
	assert.Equal(t, edm.KindDouble, attrs[0].Value.Kind())
	assert.Equal(t, 12.5, attrs[0].Value.Value())
}

func TestSaveRepeatedProduct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	products := testProducts(t)

	updated := products[0]
	updated.ContentLength = 2048
	n, err := s.Save(ctx, []response.Product{products[0], updated})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rec, err := s.Get(ctx, products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2048), rec.ContentLength)
}

func TestSaveUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	products := testProducts(t)

	_, err := s.Save(ctx, products)
	require.NoError(t, err)

	products[1].Online = true
	products[1].ContentLength = 4096
	_, err = s.Save(ctx, products[1:])
	require.NoError(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	rec, err := s.Get(ctx, products[1].ID)
	require.NoError(t, err)
	assert.True(t, rec.Online)
	assert.Equal(t, int64(4096), rec.ContentLength)
}

func TestSaveEmpty(t *testing.T) {
	s := newTestStore(t)
	n, err := s.Save(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSaveRejectsMissingID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save(context.Background(), []response.Product{{Name: "no-id"}})
	assert.Error(t, err)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Save(ctx, testProducts(t))
	require.NoError(t, err)

	records, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "S1A_IW_GRDH_20200103.SAFE", records[0].Name)

	records, err = s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStoreTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	cfg := observability.NewConfig(
		observability.WithTracerProvider(tp),
		observability.WithDetailedDBTracing(),
	)

	s := newTestStore(t, WithObservability(cfg))
	_, err := s.Save(context.Background(), testProducts(t))
	require.NoError(t, err)

	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Contains(t, names, "db.insert")
}
