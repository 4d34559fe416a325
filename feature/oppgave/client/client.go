package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"oppgave-sync/feature/oppgave/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the remote system has no such oppgave.
var ErrNotFound = errors.New("oppgave not found")

// ClientError wraps a failed remote call. It is never silently swallowed
// at this boundary; callers decide whether it aborts anything.
type ClientError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ClientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("oppgave client: %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("oppgave client: %s failed: %v", e.Op, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Filters are server-side filters passed unchanged on every page request.
type Filters struct {
	// IncludeFrom is an ISO date lower bound (fristFom), empty to skip.
	IncludeFrom string
	// Tema filters on subject area.
	Tema string
	// Behandlingstype filters on case-type code.
	Behandlingstype string
	// TildeltEnhetsnr filters on the assigned unit.
	TildeltEnhetsnr string
}

// OppgaveClient is the remote record source consumed by the
// reconciliation engine.
type OppgaveClient interface {
	// FetchOppgaver returns one page. An empty Oppgaver slice signals
	// the end of pagination regardless of the reported total.
	FetchOppgaver(ctx context.Context, filters Filters, offset int) (models.OppgaveResponse, error)
	// GetOppgave fetches a single record; ErrNotFound when absent.
	GetOppgave(ctx context.Context, id int64) (models.Oppgave, error)
	// PutOppgave replaces the full record (last-write-wins remotely).
	PutOppgave(ctx context.Context, oppgave models.Oppgave) (models.Oppgave, error)
}

// Config holds the HTTP client settings.
type Config struct {
	// BaseURL points at the oppgave collection resource.
	BaseURL string
	// ConsumerID identifies this application to the remote API.
	ConsumerID string
	// PageSize is the fixed fetch limit per page.
	PageSize int
}

// HTTPClient is the real OppgaveClient over the remote REST API.
type HTTPClient struct {
	http         *http.Client
	cfg          Config
	logger       *zap.Logger
	secureLogger *zap.Logger
}

// NewHTTPClient creates a client against the remote oppgave API.
func NewHTTPClient(cfg Config, logger, secureLogger *zap.Logger) *HTTPClient {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	return &HTTPClient{
		http:         &http.Client{Timeout: 30 * time.Second},
		cfg:          cfg,
		logger:       logger,
		secureLogger: secureLogger,
	}
}

// PageSize returns the fixed page size used for offset pagination.
func (c *HTTPClient) PageSize() int {
	return c.cfg.PageSize
}

// FetchOppgaver fetches one page of open oppgaver.
func (c *HTTPClient) FetchOppgaver(ctx context.Context, filters Filters, offset int) (models.OppgaveResponse, error) {
	query := url.Values{}
	query.Set("statuskategori", string(models.StatuskategoriAapen))
	query.Set("limit", strconv.Itoa(c.cfg.PageSize))
	query.Set("offset", strconv.Itoa(offset))
	if filters.Behandlingstype != "" {
		query.Set("behandlingstype", filters.Behandlingstype)
	}
	if filters.Tema != "" {
		query.Set("tema", filters.Tema)
	}
	if filters.TildeltEnhetsnr != "" {
		query.Set("tildeltEnhetsnr", filters.TildeltEnhetsnr)
	}
	if filters.IncludeFrom != "" {
		query.Set("fristFom", filters.IncludeFrom)
	}

	var page models.OppgaveResponse
	err := c.do(ctx, fmt.Sprintf("getOppgaver (%d)", offset), http.MethodGet,
		c.cfg.BaseURL+"?"+query.Encode(), nil, &page)
	if err != nil {
		return models.OppgaveResponse{}, err
	}
	return page, nil
}

// GetOppgave fetches a single oppgave by id.
func (c *HTTPClient) GetOppgave(ctx context.Context, id int64) (models.Oppgave, error) {
	var oppgave models.Oppgave
	err := c.do(ctx, "getOppgave", http.MethodGet,
		fmt.Sprintf("%s/%d", c.cfg.BaseURL, id), nil, &oppgave)
	if err != nil {
		return models.Oppgave{}, err
	}
	return oppgave, nil
}

// PutOppgave replaces the oppgave remotely and returns the stored record.
func (c *HTTPClient) PutOppgave(ctx context.Context, oppgave models.Oppgave) (models.Oppgave, error) {
	body, err := json.Marshal(oppgave)
	if err != nil {
		return models.Oppgave{}, &ClientError{Op: "putOppgave", Err: err}
	}

	var stored models.Oppgave
	err = c.do(ctx, "putOppgave", http.MethodPut,
		fmt.Sprintf("%s/%d", c.cfg.BaseURL, oppgave.ID), body, &stored)
	if err != nil {
		return models.Oppgave{}, err
	}
	return stored, nil
}

// do performs one round-trip, logs timing on the general logger and full
// error payloads on the secure one.
func (c *HTTPClient) do(ctx context.Context, op, method, rawURL string, body []byte, out any) error {
	start := time.Now()
	defer func() {
		c.logger.Info("Remote call finished",
			zap.String("op", op),
			zap.Duration("took", time.Since(start)),
		)
	}()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return &ClientError{Op: op, Err: err}
	}
	req.Header.Set("X-Correlation-ID", uuid.NewString())
	req.Header.Set("Nav-Consumer-Id", c.cfg.ConsumerID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Remote call failed", zap.String("op", op), zap.Error(err))
		return &ClientError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ClientError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return &ClientError{Op: op, StatusCode: resp.StatusCode, Err: ErrNotFound}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Error bodies may quote the oppgave payload, so details go to
		// the restricted sink only.
		c.logger.Warn("Remote call returned an error status, see secure log for details",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
		)
		c.secureLogger.Error("Remote call error response",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", payload),
		)
		return &ClientError{Op: op, StatusCode: resp.StatusCode, Err: errors.New("unexpected status")}
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return &ClientError{Op: op, StatusCode: resp.StatusCode, Err: err}
		}
	}

	return nil
}
