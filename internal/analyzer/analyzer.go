// Package analyzer is the client for the upstream meal-photo analysis service.
//
// The upstream accepts a multipart upload on POST /upload with the image in the
// "photo" field and answers with {"result": {...}}. The result is returned as raw
// JSON so that decoding stays lenient and lives with the nutrition model.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/nutrition-service/config"
	"github.com/guttosm/nutrition-service/internal/circuitbreaker"
	"github.com/guttosm/nutrition-service/internal/metrics"
)

var (
	// ErrUpstream wraps every failure of the analysis service itself.
	ErrUpstream = errors.New("analyzer upstream failed")
	// ErrEmptyPhoto is returned when the uploaded photo has no content.
	ErrEmptyPhoto = errors.New("photo is empty")
)

const (
	photoField       = "photo"
	uploadPath       = "/upload"
	maxResponseBytes = 4 << 20
)

// Request outcomes recorded on analyzer_requests_total.
const (
	StatusSuccess     = "success"
	StatusUpstream    = "upstream_error"
	StatusTimeout     = "timeout"
	StatusCircuitOpen = "circuit_open"
	StatusRejected    = "rejected"
)

var extensionPattern = regexp.MustCompile(`\.(\w+)$`)

// Analyzer sends a meal photo for analysis and returns the raw result JSON.
type Analyzer interface {
	Analyze(ctx context.Context, filename, contentType string, body io.Reader) ([]byte, error)
}

// Config holds the client configuration.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Breaker    circuitbreaker.Config
	HTTPClient *http.Client
}

// NewConfigFromAnalyzerConfig maps application settings onto a client Config.
func NewConfigFromAnalyzerConfig(cfg config.AnalyzerConfig) Config {
	return Config{
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
		Breaker: circuitbreaker.Config{
			Name:             "analyzer",
			FailureThreshold: cfg.CircuitBreakerFailureThreshold,
			SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
			Timeout:          cfg.CircuitBreakerTimeout,
		},
	}
}

// Client is the HTTP implementation of Analyzer.
type Client struct {
	uploadURL  string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
}

// New creates a Client. Breaker transitions are exported as metrics.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	breakerCfg := cfg.Breaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = "analyzer"
	}
	breakerCfg.IsFailure = isBreakerFailure
	breakerCfg.OnStateChange = func(name string, _, to circuitbreaker.State) {
		metrics.SetCircuitBreakerState(name, int(to))
	}

	return &Client{
		uploadURL:  strings.TrimRight(cfg.BaseURL, "/") + uploadPath,
		httpClient: httpClient,
		breaker:    circuitbreaker.New(breakerCfg),
	}
}

// CircuitBreaker exposes the breaker for health reporting.
func (c *Client) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return c.breaker
}

// Analyze uploads the photo and returns the "result" member of the response.
// A missing result is returned as JSON null.
func (c *Client) Analyze(ctx context.Context, filename, contentType string, body io.Reader) ([]byte, error) {
	start := time.Now()

	photo, err := io.ReadAll(body)
	if err != nil {
		metrics.RecordAnalyzerRequest(StatusRejected, time.Since(start))
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(photo) == 0 {
		metrics.RecordAnalyzerRequest(StatusRejected, time.Since(start))
		return nil, ErrEmptyPhoto
	}

	var result []byte
	err = c.breaker.Execute(ctx, func() error {
		var callErr error
		result, callErr = c.upload(ctx, filename, contentType, photo)
		return callErr
	})

	status := statusFor(err)
	metrics.RecordAnalyzerRequest(status, time.Since(start))
	if err != nil {
		log.Warn().
			Err(err).
			Str("status", status).
			Str("filename", filename).
			Msg("Photo analysis failed")
		return nil, err
	}
	return result, nil
}

func (c *Client) upload(ctx context.Context, filename, contentType string, photo []byte) ([]byte, error) {
	payload, formType, err := buildForm(filename, contentType, photo)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", formType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	return decodeEnvelope(raw)
}

type envelope struct {
	Result json.RawMessage `json:"result"`
}

func decodeEnvelope(raw []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: invalid response body: %w", ErrUpstream, err)
	}
	if len(env.Result) == 0 {
		return []byte("null"), nil
	}
	return env.Result, nil
}

func buildForm(filename, contentType string, photo []byte) (*bytes.Buffer, string, error) {
	name := uploadName(filename)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     photoField,
		"filename": name,
	}))
	header.Set("Content-Type", PhotoContentType(name, contentType))

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(photo); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// uploadName keeps the last path segment of filename.
func uploadName(filename string) string {
	name := filename[strings.LastIndexAny(filename, `/\`)+1:]
	if name == "" {
		return photoField
	}
	return name
}

// PhotoContentType returns contentType when it names an image, otherwise
// image/<ext> from the filename extension, or plain "image" without one.
func PhotoContentType(filename, contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return contentType
	}
	if m := extensionPattern.FindStringSubmatch(filename); m != nil {
		return "image/" + strings.ToLower(m[1])
	}
	return "image"
}

func isBreakerFailure(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, ErrEmptyPhoto)
}

func statusFor(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return StatusCircuitOpen
	case IsTimeout(err):
		return StatusTimeout
	default:
		return StatusUpstream
	}
}

// IsTimeout reports whether err is a context deadline or a transport timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
