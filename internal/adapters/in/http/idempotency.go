package http

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"settlement/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotentReplayedHeader  = "Idempotent-Replayed"
	maxIdempotencyKeyLength   = 128
	idempotencyPendingStatus  = 0
	idempotencyReplayedMarker = "true"

	// idempotencyPersistTimeout bounds the record write after the handler,
	// which runs past the request deadline.
	idempotencyPersistTimeout = 5 * time.Second
)

// IdempotencyStore persists idempotency records. Reserve must be atomic.
type IdempotencyStore interface {
	Key(scope, id string) string
	Get(ctx context.Context, key string) (string, bool, error)
	Reserve(ctx context.Context, key, value string) (bool, error)
	Save(ctx context.Context, key, value string) error
	Release(ctx context.Context, key string) error
}

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the recorded response when a mutating request is
// retried with the same Idempotency-Key. Requests without the header are
// served normally. A key reused with a different body, or while the first
// request is still running, is a conflict. Server errors, including timeouts,
// are not recorded so the caller can retry them.
func Idempotency(store IdempotencyStore, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(IdempotencyKeyHeader))
			if store == nil || id == "" {
				return next(c)
			}
			if len(id) > maxIdempotencyKeyLength {
				return errs.NewValueIsInvalidErrorWithCause(IdempotencyKeyHeader,
					fmt.Errorf("longer than %d characters", maxIdempotencyKeyLength))
			}

			req := c.Request()
			ctx := req.Context()

			body, err := io.ReadAll(req.Body)
			if err != nil {
				return errs.NewValueIsInvalidErrorWithCause("body", err)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashRequest(req.Method, req.URL.Path, body)
			key := store.Key(req.Method+" "+req.URL.Path, id)

			pending, err := json.Marshal(idempotencyRecord{Status: idempotencyPendingStatus, RequestHash: requestHash})
			if err != nil {
				return fmt.Errorf("marshal idempotency record: %w", err)
			}
			reserved, err := store.Reserve(ctx, key, string(pending))
			if err != nil {
				return fmt.Errorf("reserve idempotency key: %w", err)
			}
			if !reserved {
				return replay(c, store, key, id, requestHash)
			}

			writer := c.Response().Writer
			capture := &responseCapture{ResponseWriter: writer}
			c.Response().Writer = capture
			defer func() { c.Response().Writer = writer }()

			if err := next(c); err != nil {
				c.Error(err)
			}

			persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), idempotencyPersistTimeout)
			defer cancel()

			status := c.Response().Status
			if status >= http.StatusInternalServerError {
				if releaseErr := store.Release(persistCtx, key); releaseErr != nil {
					logger.WarnContext(ctx, "release idempotency key", "key", id, "error", releaseErr)
				}
				return nil
			}

			record, err := json.Marshal(idempotencyRecord{
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				RequestHash: requestHash,
			})
			if err != nil {
				logger.WarnContext(ctx, "marshal idempotency record", "key", id, "error", err)
				return nil
			}
			if err := store.Save(persistCtx, key, string(record)); err != nil {
				logger.WarnContext(ctx, "persist idempotency record", "key", id, "error", err)
			}
			return nil
		}
	}
}

func replay(c echo.Context, store IdempotencyStore, key, id, requestHash string) error {
	stored, found, err := store.Get(c.Request().Context(), key)
	if err != nil {
		return fmt.Errorf("check idempotency key: %w", err)
	}
	if !found {
		return errs.NewConflictErrorWithCause(IdempotencyKeyHeader, id,
			fmt.Errorf("record expired while the request was retried"))
	}

	var record idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		return fmt.Errorf("decode idempotency record: %w", err)
	}
	if record.RequestHash != requestHash {
		return errs.NewConflictErrorWithCause(IdempotencyKeyHeader, id,
			fmt.Errorf("key reused with a different request"))
	}
	if record.Status == idempotencyPendingStatus {
		return errs.NewConflictErrorWithCause(IdempotencyKeyHeader, id,
			fmt.Errorf("original request is still in progress"))
	}

	body, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		return fmt.Errorf("decode idempotency body: %w", err)
	}

	c.Response().Header().Set(IdempotentReplayedHeader, idempotencyReplayedMarker)
	if len(body) == 0 {
		return c.NoContent(record.Status)
	}
	return c.Blob(record.Status, record.ContentType, body)
}

func hashRequest(method, path string, body []byte) string {
	sum := sha256.New()
	sum.Write([]byte(method))
	sum.Write([]byte{0})
	sum.Write([]byte(path))
	sum.Write([]byte{0})
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil))
}

type responseCapture struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *responseCapture) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseCapture) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
