package libs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/models"

	"github.com/pkg/errors"
)

type FetchErrorKind string

const (
	FetchErrTransport FetchErrorKind = "transport"
	FetchErrStatus    FetchErrorKind = "status"
	FetchErrDecode    FetchErrorKind = "decode"
)

// FetchError is a failed remote catalog read. Callers that only show results
// treat it as an empty page; Kind is kept for logs and metrics.
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("remote catalog %s error: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// KindOf reports the kind of a fetch error, or "" when err is not one.
func KindOf(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

type CatalogSource interface {
	FetchPage(ctx context.Context, query string) ([]models.Item, error)
}

// RemoteCatalogClient reads one fixed-size page of products from a
// dummyjson-compatible endpoint.
type RemoteCatalogClient struct {
	httpClient   *http.Client
	baseURL      string
	pageSize     int
	forwardQuery bool
}

func NewRemoteCatalogClient(baseURL string, pageSize int, timeout time.Duration, forwardQuery bool) *RemoteCatalogClient {
	return &RemoteCatalogClient{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(baseURL, "/"),
		pageSize:     pageSize,
		forwardQuery: forwardQuery,
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *RemoteCatalogClient) WithHTTPClient(hc *http.Client) *RemoteCatalogClient {
	c.httpClient = hc
	return c
}

func (c *RemoteCatalogClient) effectiveQuery(query string) string {
	if !c.forwardQuery {
		return ""
	}
	return strings.TrimSpace(query)
}

// RequestURL is the URL fetched for query. The query is only sent when
// forwarding is enabled.
func (c *RemoteCatalogClient) RequestURL(query string) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.pageSize))

	q := c.effectiveQuery(query)
	if q == "" {
		return c.baseURL + "?" + params.Encode()
	}
	params.Set("q", q)
	return c.baseURL + "/search?" + params.Encode()
}

func (c *RemoteCatalogClient) CacheKey(query string) string {
	key := fmt.Sprintf("remote_catalog:l%d", c.pageSize)
	if q := c.effectiveQuery(query); q != "" {
		key += ":q" + strings.ToLower(q)
	}
	return key
}

func (c *RemoteCatalogClient) FetchPage(ctx context.Context, query string) ([]models.Item, error) {
	reqURL := c.RequestURL(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchErrTransport, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FetchErrTransport, Err: errors.Wrapf(err, "GET %s", reqURL)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{Kind: FetchErrStatus, Err: errors.Errorf("GET %s: unexpected status %d", reqURL, resp.StatusCode)}
	}

	var page models.RemoteProductPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &FetchError{Kind: FetchErrDecode, Err: errors.Wrapf(err, "decode %s", reqURL)}
	}
	return page.Items(), nil
}
