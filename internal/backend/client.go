// Package backend реализует клиент read-only API риск-бэкенда.
//
// Пять эндпоинтов, каждый вызов - один GET с общим таймаутом. Ответ всегда
// обёрнут в {success, ...payload}; отсутствующие поля payload заменяются
// пустыми коллекциями и нулями. Повторов на этом уровне нет.
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"riskdash/internal/metrics"
	"riskdash/internal/models"
	"riskdash/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodySize ограничивает размер тела ответа (матрица позиций самая большая)
const maxBodySize = 32 << 20

// Config - настройки клиента бэкенда
type Config struct {
	BaseURL string
	Timeout time.Duration // 0 = DefaultTimeout
	HTTP    HTTPClientConfig
}

// Client - клиент API бэкенда
type Client struct {
	baseURL *url.URL
	timeout time.Duration
	http    *HTTPClient
	log     *utils.Logger
}

// NewClient создаёт клиент. BaseURL обязателен.
func NewClient(cfg Config, log *utils.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("backend base url is empty")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http(s): %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpCfg := cfg.HTTP
	if httpCfg == (HTTPClientConfig{}) {
		httpCfg = DefaultHTTPClientConfig()
	}
	httpCfg.TotalTimeout = timeout
	if httpCfg.ResponseHeaderTimeout <= 0 || httpCfg.ResponseHeaderTimeout > timeout {
		httpCfg.ResponseHeaderTimeout = timeout
	}

	if log == nil {
		log = utils.L()
	}

	return &Client{
		baseURL: base,
		timeout: timeout,
		http:    NewHTTPClient(httpCfg),
		log:     log.WithComponent("backend"),
	}, nil
}

// Close освобождает соединения
func (c *Client) Close() {
	c.http.Close()
}

// ============================================================
// Конверты ответов
// ============================================================

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e *envelope) head() *envelope { return e }

// reason возвращает текст ошибки бэкенда, если он есть
func (e *envelope) reason() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

type enveloped interface {
	head() *envelope
}

type nopEnvelope struct {
	envelope
	Data   []models.NOPSymbol `json:"data"`
	Totals *models.NOPTotals  `json:"totals"`
}

type depositsEnvelope struct {
	envelope
	Data *models.DepositSummary `json:"data"`
}

type clientMonitorEnvelope struct {
	envelope
	Data []models.ClientPnL `json:"data"`
}

type riskEnvelope struct {
	envelope
	Clients []models.RiskClient `json:"clients"`
	Summary *models.RiskSummary `json:"summary"`
}

type matrixEnvelope struct {
	envelope
	Data    []models.PositionMatrixClient `json:"data"`
	Symbols []string                      `json:"symbols"`
}

// ============================================================
// Операции
// ============================================================

// FetchNOPSummary загружает NOP по символам и итоги
func (c *Client) FetchNOPSummary(ctx context.Context) (*models.NOPSummary, error) {
	var env nopEnvelope
	if err := c.get(ctx, EndpointNOPSummary, nil, &env); err != nil {
		return nil, err
	}

	out := &models.NOPSummary{Symbols: env.Data}
	if out.Symbols == nil {
		out.Symbols = []models.NOPSymbol{}
	}
	if env.Totals != nil {
		out.Totals = *env.Totals
	}
	return out, nil
}

// FetchDepositSummary загружает сводку депозитов и выводов
func (c *Client) FetchDepositSummary(ctx context.Context) (*models.DepositSummary, error) {
	var env depositsEnvelope
	if err := c.get(ctx, EndpointDeposits, nil, &env); err != nil {
		return nil, err
	}

	if env.Data == nil {
		return &models.DepositSummary{}, nil
	}
	return env.Data, nil
}

// FetchClientMonitor загружает клиентов, отсортированных по PNL по убыванию
func (c *Client) FetchClientMonitor(ctx context.Context, limit int) ([]models.ClientPnL, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("sort_by", "pnl")
	q.Set("sort_order", "desc")

	var env clientMonitorEnvelope
	if err := c.get(ctx, EndpointClientMonitor, q, &env); err != nil {
		return nil, err
	}

	if env.Data == nil {
		return []models.ClientPnL{}, nil
	}
	return env.Data, nil
}

// FetchRiskMonitor загружает клиентов с оценкой риска за days дней
func (c *Client) FetchRiskMonitor(ctx context.Context, days, minTrades int) (*models.RiskMonitor, error) {
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))
	q.Set("min_trades", strconv.Itoa(minTrades))

	var env riskEnvelope
	if err := c.get(ctx, EndpointRiskMonitor, q, &env); err != nil {
		return nil, err
	}

	out := &models.RiskMonitor{Clients: env.Clients}
	if out.Clients == nil {
		out.Clients = []models.RiskClient{}
	}
	if unknown := countUnknownLevels(out.Clients); unknown > 0 {
		c.log.Warn("risk monitor returned unknown risk levels",
			utils.Endpoint(EndpointRiskMonitor.String()),
			utils.Int64("clients", int64(unknown)))
	}
	if env.Summary != nil {
		out.Summary = *env.Summary
	}
	if out.Summary.RiskDistribution == nil {
		out.Summary.RiskDistribution = models.RiskDistribution{}
	}
	return out, nil
}

// countUnknownLevels считает клиентов с уровнем риска вне известного набора.
// Такие клиенты не попадают ни в одну корзину распределения.
func countUnknownLevels(clients []models.RiskClient) int {
	n := 0
	for _, c := range clients {
		if !c.RiskLevel.IsValid() {
			n++
		}
	}
	return n
}

// FetchPositionMatrix загружает матрицу позиций клиентов по символам
func (c *Client) FetchPositionMatrix(ctx context.Context) (*models.PositionMatrix, error) {
	var env matrixEnvelope
	if err := c.get(ctx, EndpointPositionMatrix, nil, &env); err != nil {
		return nil, err
	}

	out := &models.PositionMatrix{Clients: env.Data, Symbols: env.Symbols}
	if out.Clients == nil {
		out.Clients = []models.PositionMatrixClient{}
	}
	if out.Symbols == nil {
		out.Symbols = []string{}
	}
	return out, nil
}

// ============================================================
// Транспорт
// ============================================================

// get выполняет GET и декодирует конверт в out.
// Метрики пишутся для каждого вызова, включая неуспешные.
func (c *Client) get(ctx context.Context, endpoint Endpoint, query url.Values, out enveloped) (err error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		metrics.RecordFetch(endpoint.String(), elapsed, string(KindOf(err)))
		if err == nil {
			c.log.Debug("fetch completed", utils.Endpoint(endpoint.String()), utils.Elapsed(elapsed))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint, query), nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &FetchError{Endpoint: endpoint, Kind: KindTransport, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &FetchError{
			Endpoint: endpoint,
			Kind:     KindTransport,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unexpected status: %s", http.StatusText(resp.StatusCode)),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &FetchError{Endpoint: endpoint, Kind: KindDecode, Status: resp.StatusCode, Err: err}
	}

	if head := out.head(); !head.Success {
		err := ErrUnsuccessful
		if reason := head.reason(); reason != "" {
			err = fmt.Errorf("%w: %s", ErrUnsuccessful, reason)
		}
		return &FetchError{Endpoint: endpoint, Kind: KindEnvelope, Status: resp.StatusCode, Err: err}
	}

	return nil
}

func (c *Client) endpointURL(endpoint Endpoint, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + endpoint.Path()
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
