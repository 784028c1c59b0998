package copernicus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrChebur/Copernicus-OData-wrapper/internal/observability"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/query"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/response"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/transport"
)

// URL renders the request URL for opts against the client's endpoint, exactly as
// Send puts it on the wire.
func (c *Client) URL(opts *QueryOptions) string {
	return query.RequoteURL(opts.URL(c.endpoint))
}

// Send issues a GET for the configured options and decodes the returned page.
func (c *Client) Send(ctx context.Context, opts *QueryOptions) (*ProductPage, error) {
	if opts == nil {
		return nil, fmt.Errorf("query options must not be nil: %w", ErrInvalidArgument)
	}

	var page *ProductPage
	err := c.request(ctx, observability.OpSearch, http.MethodGet, c.URL(opts), nil,
		func(span trace.Span) {
			if c.observability.QueryOptionTracingEnabled() {
				rendered := opts.Options()
				qo := make([]observability.QueryOption, 0, len(rendered))
				for _, o := range rendered {
					qo = append(qo, observability.QueryOption{Name: o.Name, Value: o.Value})
				}
				c.observability.Tracer().AddQueryOptions(span, qo...)
			}
		},
		func(ctx context.Context, span trace.Span, resp *transport.Response) error {
			var err error
			page, err = c.decodePage(ctx, span, observability.OpSearch, resp.Body)
			return err
		})
	return page, err
}

// Next fetches the page announced by page's @odata.nextLink. It returns ErrNoNextPage
// when there is none.
func (c *Client) Next(ctx context.Context, page *ProductPage) (*ProductPage, error) {
	if !page.HasNext() {
		return nil, ErrNoNextPage
	}

	var next *ProductPage
	err := c.request(ctx, observability.OpNextPage, http.MethodGet, query.RequoteURL(page.NextLink), nil, nil,
		func(ctx context.Context, span trace.Span, resp *transport.Response) error {
			var err error
			next, err = c.decodePage(ctx, span, observability.OpNextPage, resp.Body)
			return err
		})
	return next, err
}

type filterListRequest struct {
	FilterProducts []filterListItem `json:"FilterProducts"`
}

type filterListItem struct {
	Name string `json:"Name"`
}

// ByNames looks up products by exact name with a single POST to OData.CSC.FilterList.
// Names must carry their extension (usually .SAFE) to match. An empty list returns an
// empty page without contacting the catalogue.
func (c *Client) ByNames(ctx context.Context, names []string) (*ProductPage, error) {
	if len(names) == 0 {
		return &ProductPage{Context: "$metadata#Products", Value: []Product{}}, nil
	}

	req := filterListRequest{FilterProducts: make([]filterListItem, 0, len(names))}
	for _, name := range names {
		req.FilterProducts = append(req.FilterProducts, filterListItem{Name: name})
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode name list: %w", err)
	}

	var page *ProductPage
	err = c.request(ctx, observability.OpByNames, http.MethodPost, c.endpoint+"/OData.CSC.FilterList", body, nil,
		func(ctx context.Context, span trace.Span, resp *transport.Response) error {
			var err error
			page, err = c.decodePage(ctx, span, observability.OpByNames, resp.Body)
			return err
		})
	return page, err
}

// NodesURL returns the Nodes listing URL for a product id or for a product or node
// URL under the catalogue or zipper endpoint. URLs are used as given, with /Nodes
// appended unless already present.
func (c *Client) NodesURL(idOrURL string) string {
	if hasEndpointPrefix(idOrURL, c.endpoint) || hasEndpointPrefix(idOrURL, c.zipperEndpoint) {
		if strings.HasSuffix(idOrURL, "/Nodes") {
			return idOrURL
		}
		return idOrURL + "/Nodes"
	}
	return c.endpoint + "(" + idOrURL + ")/Nodes"
}

func hasEndpointPrefix(s, endpoint string) bool {
	return endpoint != "" && strings.HasPrefix(s, endpoint)
}

// ProductNodes lists the content of a product or of a folder node. Listing a file
// node returns an empty result.
func (c *Client) ProductNodes(ctx context.Context, idOrURL string) (*NodeListing, error) {
	if idOrURL == "" {
		return nil, fmt.Errorf("product id must not be empty: %w", ErrInvalidArgument)
	}

	var nodes *NodeListing
	err := c.request(ctx, observability.OpNodes, http.MethodGet, query.RequoteURL(c.NodesURL(idOrURL)), nil, nil,
		func(ctx context.Context, span trace.Span, resp *transport.Response) error {
			var err error
			nodes, err = response.DecodeNodes(resp.Body)
			if err != nil {
				c.observability.Tracer().RecordError(span, err)
				c.observability.Metrics().RecordError(ctx, observability.OpNodes, "decode")
				return err
			}
			c.observability.Metrics().RecordResultCount(ctx, observability.OpNodes, int64(len(nodes.Result)))
			return nil
		})
	return nodes, err
}

// ProductNodesByID lists the top-level content of the product with id.
func (c *Client) ProductNodesByID(ctx context.Context, id uuid.UUID) (*NodeListing, error) {
	return c.ProductNodes(ctx, id.String())
}

// Quicklook is not supported. Expand Assets and follow the quicklook DownloadLink
// instead.
func (c *Client) Quicklook(context.Context, uuid.UUID) ([]byte, error) {
	return nil, fmt.Errorf("quicklook: %w", ErrNotImplemented)
}

// ProductDownload is not supported; downloading archives needs an access token and
// is left to dedicated tools.
func (c *Client) ProductDownload(context.Context, uuid.UUID) ([]byte, error) {
	return nil, fmt.Errorf("product download: %w", ErrNotImplemented)
}

// DeletedProducts is not supported.
func (c *Client) DeletedProducts(context.Context, *QueryOptions) (*ProductPage, error) {
	return nil, fmt.Errorf("deleted products: %w", ErrNotImplemented)
}

func (c *Client) decodePage(ctx context.Context, span trace.Span, operation string, body []byte) (*ProductPage, error) {
	page, err := response.DecodePage(body)
	if err != nil {
		c.observability.Tracer().RecordError(span, err)
		c.observability.Metrics().RecordError(ctx, operation, "decode")
		return nil, err
	}
	c.observability.Tracer().AddPageResult(span, len(page.Value), page.Count, page.HasNext())
	c.observability.Metrics().RecordResultCount(ctx, operation, int64(len(page.Value)))
	return page, nil
}

// request performs one catalogue exchange inside a client span: transport call,
// logging, metrics, error classification, then handle on success. annotate, if set,
// runs before the call.
func (c *Client) request(
	ctx context.Context,
	operation, method, url string,
	body []byte,
	annotate func(trace.Span),
	handle func(context.Context, trace.Span, *transport.Response) error,
) error {
	tracer := c.observability.Tracer()
	metrics := c.observability.Metrics()

	ctx, span := tracer.StartRequest(ctx, operation, method, url)
	defer span.End()
	if annotate != nil {
		annotate(span)
	}

	logger := observability.LoggerWithTrace(ctx, c.log())

	start := time.Now()
	var (
		resp *transport.Response
		err  error
	)
	if method == http.MethodPost {
		resp, err = c.transport.Post(ctx, url, c.timeout, body)
	} else {
		resp, err = c.transport.Get(ctx, url, c.timeout)
	}
	duration := time.Since(start)

	if err != nil {
		tracer.RecordError(span, err)
		metrics.RecordError(ctx, operation, "transport")
		logger.Warn("Catalogue request failed",
			observability.LogFieldOperation, operation,
			observability.LogFieldURL, url,
			observability.LogFieldError, err.Error(),
		)
		return err
	}

	tracer.SetHTTPStatus(span, resp.StatusCode)
	metrics.RecordRequest(ctx, operation, resp.StatusCode, duration)

	attrs := []any{
		observability.LogFieldOperation, operation,
		observability.LogFieldURL, url,
		observability.LogFieldStatus, resp.StatusCode,
		observability.LogFieldDuration, duration.Milliseconds(),
	}
	if c.observability.ServerTimingEnabled() {
		if timings := observability.ParseServerTiming(resp.Header); len(timings) > 0 {
			span.SetAttributes(observability.ServerTimingAttrs(timings)...)
			attrs = append(attrs, observability.ServerTimingLogAttr(timings))
		}
	}
	logger.Debug("Catalogue request", attrs...)

	if remoteErr := response.Classify(resp.Body, url); remoteErr != nil {
		kind := Unknown
		var remote *RemoteError
		if errors.As(remoteErr, &remote) {
			kind = remote.Kind
		}
		span.SetAttributes(observability.ErrorKindAttr(kind.String()))
		tracer.RecordError(span, remoteErr)
		metrics.RecordError(ctx, operation, kind.String())
		logger.Warn("Catalogue returned an error",
			observability.LogFieldOperation, operation,
			observability.LogFieldURL, url,
			observability.LogFieldStatus, resp.StatusCode,
			slog.String("kind", kind.String()),
		)
		return remoteErr
	}

	return handle(ctx, span, resp)
}
