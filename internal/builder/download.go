package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultResponseHeaderTimeout is the default timeout for receiving response headers.
const DefaultResponseHeaderTimeout = 30 * time.Second

// ErrHTTPStatus is returned for responses other than 200 and 206.
var ErrHTTPStatus = errors.New("builder: unexpected HTTP status")

// Downloader fetches syllable lists over HTTP, resuming partial files.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.client = client
	}
}

// WithUserAgent sets the User-Agent header of every request.
func WithUserAgent(ua string) DownloaderOption {
	return func(d *Downloader) {
		d.userAgent = ua
	}
}

// NewDownloader creates a new Downloader with sensible defaults.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		userAgent: "cypher-builder",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// open starts a GET for url, asking for the bytes after offset. It
// reports the total size and whether the server honoured the range.
func (d *Downloader) open(ctx context.Context, url string, offset int64) (io.ReadCloser, int64, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, 0, false, fmt.Errorf("downloading: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, resp.ContentLength, false, nil
	case http.StatusPartialContent:
		total := offset + resp.ContentLength
		// Format: bytes 0-999/1234
		var start, end int64
		if _, err := fmt.Sscanf(resp.Header.Get("Content-Range"), "bytes %d-%d/%d", &start, &end, &total); err != nil {
			total = offset + resp.ContentLength
		}
		return resp.Body, total, true, nil
	default:
		resp.Body.Close()
		return nil, 0, false, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}
}

// DownloadToFile downloads url to destPath. An existing partial file is
// resumed when the server supports range requests and restarted when it
// does not.
func (d *Downloader) DownloadToFile(ctx context.Context, url string, destPath string, progress ProgressFunc) error {
	var offset int64
	if info, err := os.Stat(destPath); err == nil {
		offset = info.Size()
	}

	body, total, resumed, err := d.open(ctx, url, offset)
	if err != nil {
		return err
	}
	defer body.Close()

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if resumed {
		flags = os.O_WRONLY | os.O_APPEND
	} else {
		offset = 0
	}
	file, err := os.OpenFile(destPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 32*1024)
	downloaded := offset
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := body.Read(buf)
		if n > 0 {
			if _, writeErr := file.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("writing file: %w", writeErr)
			}
			downloaded += int64(n)
			if progress != nil {
				progress(Progress{
					Phase:           PhaseDownload,
					BytesDownloaded: downloaded,
					BytesTotal:      total,
				})
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
	}

	return file.Close()
}
