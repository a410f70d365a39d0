package transport

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/dustin/go-humanize"
	"github.com/richard-senior/edutune/internal/logger"
)

var (
	httpClient     *http.Client
	httpClientOnce sync.Once
)

// CABundleEnv names an extra PEM bundle appended to the system roots,
// for networks that intercept TLS
const CABundleEnv = "EDUTUNE_CA_BUNDLE"

func extraCABundle() ([]byte, error) {
	path := os.Getenv(CABundleEnv)
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".ssh/zscaler_ca_bundle.pem")
	}
	return os.ReadFile(path)
}

// GetCustomHTTPClient returns the shared HTTP client
func GetCustomHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		rootCAs, err := x509.SystemCertPool()
		if err != nil {
			logger.Warn("Failed to get system cert pool", err)
			rootCAs = x509.NewCertPool()
		}
		if pem, err := extraCABundle(); err == nil {
			if rootCAs.AppendCertsFromPEM(pem) {
				logger.Info("Added extra CA bundle to root CAs")
			} else {
				logger.Warn("Failed to append extra CA bundle")
			}
		}

		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{RootCAs: rootCAs},
				Proxy:           http.ProxyFromEnvironment,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		}
	})
	return httpClient
}

// FetchOptions bound a download
type FetchOptions struct {
	Timeout  time.Duration
	MaxBytes int64
	Client   *http.Client
}

// FetchSVG downloads an SVG document, decoding gzip, deflate and brotli bodies
func FetchSVG(ctx context.Context, svgURL string, opts FetchOptions) ([]byte, error) {
	if !strings.HasPrefix(svgURL, "http://") && !strings.HasPrefix(svgURL, "https://") {
		return nil, fmt.Errorf("unsupported url %q", svgURL)
	}
	client := opts.Client
	if client == nil {
		client = GetCustomHTTPClient()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svgURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "image/svg+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	logger.Info("Fetching SVG from:", svgURL)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch svg: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request returned error status %d", resp.StatusCode)
	}

	reader, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	if opts.MaxBytes > 0 {
		reader = io.NopCloser(io.LimitReader(reader, opts.MaxBytes+1))
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	if opts.MaxBytes > 0 && int64(len(data)) > opts.MaxBytes {
		return nil, fmt.Errorf("svg is larger than %s", humanize.IBytes(uint64(opts.MaxBytes)))
	}
	logger.Debug("Fetched", humanize.Bytes(uint64(len(data))), "from", svgURL)
	return data, nil
}

func decodeBody(body io.ReadCloser, encoding string) (io.ReadCloser, error) {
	switch encoding {
	case "gzip":
		r, err := NewGzipReader(body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return r, nil
	case "deflate":
		return NewDeflateReader(body)
	case "br":
		return NewBrotliReader(body)
	case "", "identity":
		return io.NopCloser(body), nil
	default:
		logger.Warn("Unknown content encoding:", encoding)
		return io.NopCloser(body), nil
	}
}

// NewGzipReader creates a gzip reader from the provided io.ReadCloser
func NewGzipReader(r io.ReadCloser) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// NewDeflateReader creates a deflate reader from the provided io.ReadCloser
func NewDeflateReader(r io.ReadCloser) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}

// NewBrotliReader creates a brotli reader from the provided io.ReadCloser
func NewBrotliReader(r io.ReadCloser) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}
