package client

import (
	"bytes"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
)

// DecompressMiddleware inflates brotli encoded bodies. gzip is already
// handled by resty before response middlewares run.
func DecompressMiddleware(_ *resty.Client, resp *resty.Response) error {
	if !strings.EqualFold(resp.Header().Get("Content-Encoding"), "br") || len(resp.Body()) == 0 {
		return nil
	}

	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(resp.Body())))
	if err != nil {
		return err
	}

	resp.SetBody(decompressed)
	resp.Header().Del("Content-Encoding")
	return nil
}
