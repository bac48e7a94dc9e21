// Package extractor fetches a web page and extracts readable article
// content and metadata from it.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	requestTimeout = 15 * time.Second
	// downloadDelay spaces the parse step from the preflight request to
	// reduce rate-limiting risk.
	downloadDelay = 1 * time.Second

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Kind classifies extraction failures.
type Kind string

const (
	KindAccessDenied Kind = "access_denied"
	KindAuthRequired Kind = "auth_required"
	KindNotFound     Kind = "not_found"
	KindFetchFailed  Kind = "fetch_failed"
	KindEmptyContent Kind = "empty_content"
	KindParseFailed  Kind = "parse_failed"
)

// Error is a classified extraction failure with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Article is the extracted document with its metadata.
type Article struct {
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	PublishDate string `json:"publish_date"`
	Text        string `json:"text"`
	TopImage    string `json:"top_image"`
	SourceURL   string `json:"source_url"`
}

// Extractor fetches and parses articles from URLs.
type Extractor struct {
	httpClient *http.Client
	delay      time.Duration
}

// New creates an extractor with the default timeout and download delay.
func New() *Extractor {
	return &Extractor{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		delay: downloadDelay,
	}
}

// NewWithClient creates an extractor with an explicit client and delay.
// Used by tests to avoid the rate-limit pause.
func NewWithClient(client *http.Client, delay time.Duration) *Extractor {
	return &Extractor{
		httpClient: client,
		delay:      delay,
	}
}

// Extract fetches rawURL and extracts its article content. Failures are
// returned as *Error with a classified kind; nothing panics or propagates
// raw transport errors.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*Article, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Scheme == "" || pageURL.Host == "" {
		return nil, &Error{Kind: KindFetchFailed, Message: fmt.Sprintf("Failed to access URL: invalid URL %q", rawURL)}
	}

	body, extractErr := e.preflight(ctx, rawURL)
	if extractErr != nil {
		return nil, extractErr
	}

	meta := parseMeta(body)

	// Pause between the accessibility check and the parse step.
	select {
	case <-time.After(e.delay):
	case <-ctx.Done():
		return nil, &Error{Kind: KindFetchFailed, Message: fmt.Sprintf("Failed to access URL: %v", ctx.Err())}
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return nil, &Error{Kind: KindParseFailed, Message: fmt.Sprintf("Error processing article: %v", err)}
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, &Error{
			Kind:    KindEmptyContent,
			Message: "No text content could be extracted from the article. The website might be using a different format or structure.",
		}
	}

	authors := strings.TrimSpace(article.Byline)
	if authors == "" {
		authors = meta.author
	}
	if authors == "" {
		authors = WebsiteName(rawURL)
	}

	topImage := article.Image
	if topImage == "" {
		topImage = meta.image
	}

	return &Article{
		Title:       article.Title,
		Authors:     authors,
		PublishDate: formatPublishDate(meta.publishedTime),
		Text:        text,
		TopImage:    topImage,
		SourceURL:   rawURL,
	}, nil
}

// preflight issues the accessibility check with browser-like headers and
// classifies HTTP failures. It returns the page body on success.
func (e *Extractor) preflight(ctx context.Context, rawURL string) ([]byte, *Error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindFetchFailed, Message: fmt.Sprintf("Failed to access URL: %v", err)}
	}

	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Cache-Control", "max-age=0")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindFetchFailed, Message: fmt.Sprintf("Failed to access URL: %v", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, &Error{
			Kind:    KindAccessDenied,
			Message: "Access denied. This website might be blocking automated access. Please try a different article or website.",
		}
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &Error{
			Kind:    KindAuthRequired,
			Message: "Authentication required. This website requires login or has restricted access.",
		}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{
			Kind:    KindNotFound,
			Message: "Article not found. The URL might be incorrect or the article might have been removed.",
		}
	case resp.StatusCode >= 400:
		return nil, &Error{
			Kind:    KindFetchFailed,
			Message: fmt.Sprintf("Failed to access URL: unexpected status code %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindFetchFailed, Message: fmt.Sprintf("Failed to access URL: %v", err)}
	}

	return body, nil
}

// pageMeta holds metadata pulled from the page head, used as fallbacks when
// the readability pass does not surface them.
type pageMeta struct {
	author        string
	image         string
	publishedTime string
}

func parseMeta(body []byte) pageMeta {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}
	}

	return pageMeta{
		author:        strings.TrimSpace(doc.Find(`meta[name="author"]`).AttrOr("content", "")),
		image:         strings.TrimSpace(doc.Find(`meta[property="og:image"]`).AttrOr("content", "")),
		publishedTime: strings.TrimSpace(doc.Find(`meta[property="article:published_time"]`).AttrOr("content", "")),
	}
}

// formatPublishDate renders an RFC 3339 (or date-only) timestamp as
// "Month Day, Year", or "N/A" when absent or unparseable.
func formatPublishDate(raw string) string {
	if raw == "" {
		return "N/A"
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			// Day is zero-padded, "March 05, 2024".
			return t.Format("January 02, 2006")
		}
	}
	return "N/A"
}

// WebsiteName returns the URL's domain with any leading "www." label
// stripped. Used as the authors fallback.
func WebsiteName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
