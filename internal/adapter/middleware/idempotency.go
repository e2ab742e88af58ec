package middleware

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// A provisional lock outlives any reasonable handler run; the final
	// entry replaces it when the response is recorded.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for X-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// submitIdentity is the dedupe identity of one form submission.
type submitIdentity struct {
	requestID   string
	applicantID string
	requestAt   time.Time
}

// identityFromHeaders validates the three dedupe headers. The second
// return value is a client-facing message; empty means valid.
func identityFromHeaders(req *http.Request) (submitIdentity, string) {
	var id submitIdentity

	id.requestID = strings.TrimSpace(req.Header.Get("X-Request-Id"))
	if id.requestID == "" {
		return id, "missing X-Request-Id"
	}
	if !validReqID(id.requestID) {
		return id, "invalid X-Request-Id format"
	}

	at, err := parseRequestAt(req.Header.Get("X-Request-At"))
	if err != nil {
		return id, err.Error()
	}
	now := nowUTC()
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return id, "X-Request-At too skewed"
	}
	id.requestAt = at

	id.applicantID = strings.TrimSpace(req.Header.Get("X-Applicant-Id"))
	if id.applicantID == "" {
		return id, "missing X-Applicant-Id"
	}
	return id, ""
}

// Idempotency dedupes form submissions: key = method + route +
// applicant national id + request id. Double-clicking the submit
// button replays the stored response instead of inserting twice.
// X-Request-At must be epoch (seconds or ms) OR RFC3339/RFC3339Nano
// with timezone.
func Idempotency(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			// Only enforce on mutating methods
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			ident, msg := identityFromHeaders(req)
			if msg != "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
			}

			// Buffer & hash body
			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			bhash := bodyHash(body)

			key := buildKey(req.Method, c.Path(), ident.applicantID, ident.requestID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			entry := idempEntry{
				InProgress:  true,
				BodySHA256:  bhash,
				RequestID:   ident.requestID,
				RequestAtMS: ident.requestAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			ok, err := provisionalSet(ctx, rdb, key, entry)
			if err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !ok {
				return replayOrConflict(c, ctx, rdb, key, bhash)
			}

			// Call next and record the final response for replays
			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			final := idempEntry{
				InProgress:  false,
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				RequestID:   ident.requestID,
				RequestAtMS: ident.requestAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			_ = saveFinal(context.Background(), rdb, key, final, ttl)
			return nil
		}
	}
}

// replayOrConflict handles a key that already exists: same body and a
// finished entry replays the stored response, anything else is a 409.
func replayOrConflict(c echo.Context, ctx context.Context, rdb *redis.Client, key, bhash string) error {
	cur, err := loadEntry(ctx, rdb, key)
	if err != nil {
		log.Printf("idempotency: load %s: %v", key, err)
	}
	if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
		return c.JSON(http.StatusConflict, map[string]string{"error": "X-Request-Id reused with different body"})
	}
	if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
		return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
	}
	return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
}
