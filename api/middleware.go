package api

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// GzipRequestMiddleware inflates gzip-encoded request bodies. Board clients
// may compress task payloads on slow links; the handlers only ever see
// plain JSON. A body that announces gzip but does not decode as gzip is a
// 400, not a pass-through.
func GzipRequestMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !requestIsGzipped(req) {
				return next(c)
			}

			body := req.Body
			gr, err := gzip.NewReader(body)
			if err != nil {
				_ = body.Close()
				return echo.NewHTTPError(http.StatusBadRequest, "invalid gzip body")
			}

			// The inflated length is unknown; drop the declared one so the
			// JSON decoder reads to EOF instead.
			req.Body = &inflatedBody{reader: gr, underlying: body}
			req.ContentLength = -1
			req.Header.Del(echo.HeaderContentEncoding)
			req.Header.Del(echo.HeaderContentLength)

			return next(c)
		}
	}
}

func requestIsGzipped(req *http.Request) bool {
	header := req.Header.Get(echo.HeaderContentEncoding)
	if header == "" {
		return false
	}
	for _, enc := range strings.Split(header, ",") {
		if strings.EqualFold(strings.TrimSpace(enc), "gzip") {
			return true
		}
	}
	return false
}

// inflatedBody reads through the gzip stream and closes both the stream and
// the network body it wraps.
type inflatedBody struct {
	reader     *gzip.Reader
	underlying io.Closer
}

func (b *inflatedBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *inflatedBody) Close() error {
	err := b.reader.Close()
	if cerr := b.underlying.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
