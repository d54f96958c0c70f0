package naver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/sprint-team6/findex/pkg/config"
	"github.com/sprint-team6/findex/pkg/httputil"
	"github.com/sprint-team6/findex/pkg/logger"
)

// Client scrapes daily index quotes from Naver Finance. It is the fallback
// source when the Open API has no row for an index.
// ⭐ SSOT: Naver Finance 지수 시세 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Naver Finance index client
func NewClient(httpClient *httputil.Client, cfg config.NaverConfig, log *logger.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://finance.naver.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// Quote is one scraped daily index quote. Naver only exposes the close,
// versus, rate, volume and value columns.
type Quote struct {
	IndexCode       string
	BaseDate        time.Time
	ClosingPrice    decimal.Decimal
	Versus          decimal.Decimal
	FluctuationRate decimal.Decimal
	TradingQuantity int64 // 천주 단위
	TradingPrice    decimal.Decimal
}

const maxPages = 150

// FetchDailyQuotes fetches the daily quotes of an index code (KOSPI, KOSDAQ,
// KPI200) in [from, to], walking the page list newest-first and stopping as
// soon as a page runs past from.
func (c *Client) FetchDailyQuotes(ctx context.Context, indexCode string, from, to time.Time) ([]Quote, error) {
	var all []Quote
	noDataPages := 0

	for page := 1; page <= maxPages; page++ {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		params := url.Values{}
		params.Set("code", indexCode)
		params.Set("page", fmt.Sprintf("%d", page))
		fullURL := fmt.Sprintf("%s/sise/sise_index_day.naver?%s", c.baseURL, params.Encode())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return all, fmt.Errorf("create request failed: %w", err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
		req.Header.Set("Referer", "https://finance.naver.com/")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return all, fmt.Errorf("HTTP request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return all, fmt.Errorf("read response body failed: %w", err)
		}

		quotes, lastDate, hasMore := parseDailyQuotesHTML(string(body), indexCode, from, to)
		all = append(all, quotes...)

		// 기준일보다 이전 데이터면 종료
		if !lastDate.IsZero() && lastDate.Before(from) {
			break
		}
		if !hasMore {
			break
		}
		if lastDate.IsZero() {
			noDataPages++
			if noDataPages >= 3 {
				break
			}
		} else {
			noDataPages = 0
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"index_code": indexCode,
		"count":      len(all),
	}).Debug("Fetched daily quotes from Naver Finance")
	return all, nil
}

var quoteDateRe = regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`)

// parseDailyQuotesHTML parses one page of the daily quote table.
// 컬럼: 날짜 | 체결가 | 전일비 | 등락률 | 거래량(천주) | 거래대금(백만)
func parseDailyQuotesHTML(html, indexCode string, from, to time.Time) ([]Quote, time.Time, bool) {
	var quotes []Quote
	var lastDate time.Time

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return quotes, lastDate, false
	}

	doc.Find("table.type_1 tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}

		dateText := strings.TrimSpace(cells.Eq(0).Text())
		if !quoteDateRe.MatchString(dateText) {
			return
		}

		baseDate, err := time.Parse("2006-01-02", strings.ReplaceAll(dateText, ".", "-"))
		if err != nil {
			return
		}
		lastDate = baseDate

		if baseDate.Before(from) || baseDate.After(to) {
			return
		}

		closing, err := parseCellDecimal(cells.Eq(1).Text())
		if err != nil {
			return
		}
		versus, err := parseCellDecimal(cells.Eq(2).Text())
		if err != nil {
			return
		}
		rate, err := parseCellDecimal(strings.TrimSuffix(strings.TrimSpace(cells.Eq(3).Text()), "%"))
		if err != nil {
			return
		}
		volume, err := parseCellDecimal(cells.Eq(4).Text())
		if err != nil {
			return
		}
		value, err := parseCellDecimal(cells.Eq(5).Text())
		if err != nil {
			return
		}

		quotes = append(quotes, Quote{
			IndexCode:       indexCode,
			BaseDate:        baseDate,
			ClosingPrice:    closing,
			Versus:          versus,
			FluctuationRate: rate,
			TradingQuantity: volume.IntPart(),
			TradingPrice:    value,
		})
	})

	hasMore := doc.Find(".pgRR").Length() > 0
	return quotes, lastDate, hasMore
}

// parseCellDecimal strips the thousands separators and sign decorations Naver
// renders into the cells
func parseCellDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")
	// 하락 표시(▼)는 음수로
	if strings.ContainsAny(s, "▼") {
		s = "-" + strings.TrimSpace(strings.Trim(s, "▼"))
	}
	s = strings.TrimSpace(strings.Trim(s, "▲"))
	if s == "" || s == "-" {
		return decimal.Decimal{}, nil
	}
	return decimal.NewFromString(s)
}
