// Package fetch provides small HTTP helpers shared by the connectors:
// GET/POST with retry, default headers, and transparent gzip/brotli decoding.
package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"

	"github.com/listatv/listatv/internal/httpclient"
)

// maxBodySize caps any single response body. Upstream guides run to a few
// tens of MB; anything past this is a broken or hostile endpoint.
const maxBodySize = 256 << 20

// Bytes fetches url and returns the decoded response body.
// Content-Encoding gzip and br are decoded transparently. extraHeaders may be nil.
func Bytes(ctx context.Context, client *http.Client, url string, extraHeaders map[string]string) ([]byte, error) {
	if client == nil {
		client = httpclient.Default()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", httpclient.DefaultUserAgent)
	req.Header.Set("Accept-Encoding", "gzip, br")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	release, err := httpclient.GlobalHostSem.Acquire(ctx, url)
	if err != nil {
		return nil, err
	}
	defer release()

	resp, err := httpclient.DoWithRetry(ctx, client, req, httpclient.DefaultRetryPolicy)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return readBody(resp)
}

// JSON fetches url and unmarshals the response into v.
func JSON(ctx context.Context, client *http.Client, url string, extraHeaders map[string]string, v interface{}) error {
	body, err := Bytes(ctx, client, url, extraHeaders)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("fetch %s: decode: %w", url, err)
	}
	return nil
}

// PostJSON posts payload as JSON to url and unmarshals the response into v.
// v may be nil to discard the response.
func PostJSON(ctx context.Context, client *http.Client, url string, payload interface{}, extraHeaders map[string]string, v interface{}) error {
	if client == nil {
		client = httpclient.Default()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", httpclient.DefaultUserAgent)
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	release, err := httpclient.GlobalHostSem.Acquire(ctx, url)
	if err != nil {
		return err
	}
	defer release()

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := readBody(resp)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("post %s: decode: %w", url, err)
	}
	return nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = io.LimitReader(resp.Body, maxBodySize)
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	case "br":
		r = brotli.NewReader(r)
	}
	return io.ReadAll(r)
}

// MaybeGunzip returns the decompressed form of data when it carries a gzip
// header, and data unchanged otherwise. Guide mirrors serve .xml.gz files
// without a Content-Encoding header, so sniffing is the only reliable way.
func MaybeGunzip(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()
	return io.ReadAll(gz)
}
