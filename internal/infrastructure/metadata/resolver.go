package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"go.uber.org/zap"
	"nft-storefront.backend/internal/domain/entities"
	domainerrors "nft-storefront.backend/internal/domain/errors"
	"nft-storefront.backend/pkg/logger"
)

const ipfsScheme = "ipfs://"

// Config holds the gateway and fetch limits
type Config struct {
	GatewayURL   string
	Timeout      time.Duration
	MaxBodyBytes int64
	MaxRetries   int
	RetryDelay   time.Duration
}

// document is one fetched gateway response
type document struct {
	contentType string
	body        []byte
}

// requestError marks a URL that can never be fetched.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gateway responded %d", e.code)
}

// Resolver turns token URIs into display metadata through an IPFS gateway.
type Resolver struct {
	gateway  string
	client   *http.Client
	maxBody  int64
	executor failsafe.Executor[*document]
}

// NewResolver builds a resolver; a nil client gets one with cfg.Timeout.
func NewResolver(cfg Config, client *http.Client) *Resolver {
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = "https://ipfs.io/ipfs/"
	}
	if !strings.HasSuffix(cfg.GatewayURL, "/") {
		cfg.GatewayURL += "/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 200 * time.Millisecond
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	retry := retrypolicy.NewBuilder[*document]().
		HandleIf(func(_ *document, err error) bool {
			return isRetryable(err)
		}).
		WithBackoff(cfg.RetryDelay, cfg.RetryDelay*8).
		WithMaxRetries(cfg.MaxRetries).
		Build()

	return &Resolver{
		gateway:  cfg.GatewayURL,
		client:   client,
		maxBody:  cfg.MaxBodyBytes,
		executor: failsafe.With[*document](retry),
	}
}

// GatewayURL rewrites ipfs://<cid> to the HTTP gateway; other URIs pass through.
func (r *Resolver) GatewayURL(uri string) string {
	if strings.HasPrefix(uri, ipfsScheme) {
		return r.gateway + strings.TrimPrefix(uri, ipfsScheme)
	}
	return uri
}

// Resolve never fails: unreachable or unparsable documents degrade to a
// templated record with the token URI as image.
func (r *Resolver) Resolve(ctx context.Context, tokenID, uri string) entities.Metadata {
	if strings.TrimSpace(uri) == "" {
		return r.placeholder(tokenID, uri, entities.MetadataSourcePlaceholder)
	}

	doc, err := r.executor.WithContext(ctx).Get(func() (*document, error) {
		return r.fetch(ctx, r.GatewayURL(uri))
	})
	if err != nil {
		logger.Debug(ctx, "Metadata fetch degraded to placeholder",
			zap.String("token_id", tokenID),
			zap.String("uri", uri),
			zap.Error(errors.Join(domainerrors.ErrMetadataFetch, err)),
		)
		return r.placeholder(tokenID, uri, entities.MetadataSourcePlaceholder)
	}

	fields, ok := parseDocument(doc)
	if !ok {
		return r.placeholder(tokenID, uri, entities.MetadataSourceImage)
	}

	meta := r.placeholder(tokenID, uri, entities.MetadataSourceJSON)
	if fields.Name != "" {
		meta.Name = fields.Name
	}
	if fields.Description != "" {
		meta.Description = fields.Description
	}
	if fields.Image != "" {
		meta.Image = r.GatewayURL(fields.Image)
		meta.ImageURL = meta.Image
	}
	return meta
}

func (r *Resolver) placeholder(tokenID, uri string, source entities.MetadataSource) entities.Metadata {
	return entities.Metadata{
		Name:        "NFT #" + tokenID,
		Description: "Token #" + tokenID,
		Image:       uri,
		ImageURL:    r.GatewayURL(uri),
		Source:      source,
	}
}

func (r *Resolver) fetch(ctx context.Context, url string) (*document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &requestError{err: err}
	}
	req.Header.Set("Accept", "application/json, image/*;q=0.8, */*;q=0.5")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, r.maxBody))
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBody))
	if err != nil {
		return nil, err
	}
	return &document{contentType: resp.Header.Get("Content-Type"), body: body}, nil
}

type documentFields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// parseDocument accepts a JSON object whether or not the gateway labelled it.
func parseDocument(doc *document) (documentFields, bool) {
	var fields documentFields
	if doc == nil {
		return fields, false
	}
	trimmed := bytes.TrimSpace(doc.body)
	labelledJSON := strings.Contains(strings.ToLower(doc.contentType), "json")
	if !labelledJSON && !bytes.HasPrefix(trimmed, []byte("{")) {
		return fields, false
	}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return fields, false
	}
	return fields, true
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var re *requestError
	if errors.As(err, &re) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return true
}
