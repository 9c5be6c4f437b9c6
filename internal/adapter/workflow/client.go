package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/metrics"
)

// maxBodySize ограничение на размер ответа вебхука
const maxBodySize = 4 << 20

// Client HTTP-клиент для вебхуков n8n
type Client struct {
	httpClient *http.Client
	target     string
	logger     *slog.Logger
}

// NewClient создаёт клиент с таймаутом на весь запрос. target используется как метка в логах и метриках
func NewClient(target string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		target:     target,
		logger:     logger,
	}
}

// PostJSON отправляет payload и возвращает ответ только для 2xx с валидным JSON.
// payload типа json.RawMessage или []byte уходит без повторной сериализации
func (c *Client) PostJSON(ctx context.Context, endpoint string, payload any) (*domain.UpstreamResponse, error) {
	if endpoint == "" {
		return nil, domain.ErrUpstreamNotConfigured
	}

	body, err := encodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса к %s: %w", c.target, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP-запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome, typed := classifyTransportError(err)
		c.record(outcome, start)
		c.logger.Error("workflow request failed",
			"target", c.target,
			"outcome", outcome,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("%w: %v", typed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		outcome, typed := classifyTransportError(err)
		c.record(outcome, start)
		return nil, fmt.Errorf("%w: reading body: %v", typed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(fmt.Sprintf("status_%dxx", resp.StatusCode/100), start)
		c.logger.Warn("workflow responded with error status",
			"target", c.target,
			"status", resp.StatusCode,
			"upstream_message", gjson.GetBytes(respBody, "message").String(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, &domain.UpstreamStatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if !gjson.ValidBytes(respBody) {
		c.record("malformed", start)
		c.logger.Error("workflow returned non-JSON body", "target", c.target, "status", resp.StatusCode)
		return nil, domain.ErrUpstreamMalformed
	}

	c.record("ok", start)
	c.logger.Info("workflow request completed",
		"target", c.target,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &domain.UpstreamResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

func (c *Client) record(outcome string, start time.Time) {
	metrics.RecordUpstreamCall(c.target, outcome, time.Since(start))
}

func encodePayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case json.RawMessage:
		return p, nil
	case []byte:
		return p, nil
	default:
		return json.Marshal(payload)
	}
}

// requestID пробрасывает id запроса chi, либо генерирует новый
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

func classifyTransportError(err error) (string, error) {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "timeout", domain.ErrUpstreamTimeout
	}
	return "unreachable", domain.ErrUpstreamUnreachable
}
