package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ForgeClient/internal/domain"
	"github.com/ForgeClient/internal/infra/metrics"
	"github.com/klauspost/compress/gzip"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultBaseURL = "https://api.github.com"
	acceptJSON     = "application/json;charset=utf-8"
)

// Options configures an HTTPFetcher. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// StrictAccept adds "Accept: application/json;charset=utf-8" to every request.
	StrictAccept bool
	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
}

// HTTPFetcher issues a single GET per call, then decompresses and parses the body.
// It never retries and keeps no state between calls.
type HTTPFetcher struct {
	baseURL      string
	client       *http.Client
	userAgent    string
	strictAccept bool
}

var _ domain.Fetcher = (*HTTPFetcher)(nil)

func NewHTTPFetcher(opts Options) *HTTPFetcher {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &HTTPFetcher{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       client,
		userAgent:    opts.UserAgent,
		strictAccept: opts.StrictAccept,
	}
}

// URL joins path onto the base URL, stripping any leading slash from path.
func (f *HTTPFetcher) URL(path string) string {
	return f.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Fetch performs GET {base}/{path} and returns the parsed JSON body.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	tr := otel.Tracer("forge-client")
	ctx, span := tr.Start(ctx, "fetch")
	defer span.End()

	url := f.URL(path)
	resource := resourceLabel(path)
	span.SetAttributes(attribute.String("url", url), attribute.String("resource", resource))

	start := time.Now()
	body, status, err := f.get(ctx, url)
	metrics.FetchDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	metrics.FetchRequests.WithLabelValues(resource, status).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if !utf8.Valid(body) {
		err := fmt.Errorf("GET %s: body is not valid UTF-8: %w", url, domain.ErrDecode)
		span.RecordError(err)
		return nil, err
	}

	var out json.RawMessage
	if err := json.Unmarshal(body, &out); err != nil {
		err = fmt.Errorf("GET %s: %w: %w", url, domain.ErrParse, err)
		span.RecordError(err)
		return nil, err
	}

	slog.Debug("Fetched resource", "url", url, "bytes", len(body))
	return out, nil
}

// get returns the decompressed body and a status label for metrics.
func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, "error", fmt.Errorf("failed to create request: %w: %w", domain.ErrTransport, err)
	}
	req.Header.Set("Accept-Encoding", "gzip")
	if f.strictAccept {
		req.Header.Set("Accept", acceptJSON)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "error", fmt.Errorf("GET %s: %w: %w", url, domain.ErrTransport, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("Failed to close response body", "error", err)
		}
	}()

	status := strconv.Itoa(resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, status, &domain.StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, status, fmt.Errorf("GET %s: read body: %w: %w", url, domain.ErrTransport, err)
	}

	gzipped := strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") || isGzip(raw)
	if !gzipped {
		return raw, status, nil
	}
	body, err := gunzip(raw)
	if err != nil {
		return nil, status, fmt.Errorf("GET %s: %w: %w", url, domain.ErrDecode, err)
	}
	return body, status, nil
}

func isGzip(raw []byte) bool {
	return len(raw) >= 2 && raw[0] == 0x1f && raw[1] == 0x8b
}

func gunzip(raw []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// resourceLabel keeps metric cardinality bounded: "/users/octocat/repos" becomes "users".
func resourceLabel(path string) string {
	path = strings.TrimLeft(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
