package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sprint-team6/findex/internal/contracts"
	"github.com/sprint-team6/findex/pkg/config"
	"github.com/sprint-team6/findex/pkg/httputil"
	"github.com/sprint-team6/findex/pkg/logger"
)

// Client handles communication with the 금융위원회 시장지수 Open API
// ⭐ SSOT: 시장지수 Open API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	serviceKey string
	pageSize   int
}

// NewClient creates a new market index Open API client
func NewClient(httpClient *httputil.Client, cfg config.OpenAPIConfig, log *logger.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		serviceKey: cfg.ServiceKey,
		pageSize:   pageSize,
	}
}

// Observation is one daily index record as published by the Open API
type Observation struct {
	IndexClassification string
	IndexName           string
	BaseDate            time.Time
	MarketPrice         decimal.Decimal
	ClosingPrice        decimal.Decimal
	HighPrice           decimal.Decimal
	LowPrice            decimal.Decimal
	Versus              decimal.Decimal
	FluctuationRate     decimal.Decimal
	TradingQuantity     int64
	TradingPrice        decimal.Decimal
	MarketTotalAmount   decimal.Decimal
}

// apiResponse mirrors the envelope of the data.go.kr JSON payload
type apiResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			NumOfRows  int `json:"numOfRows"`
			PageNo     int `json:"pageNo"`
			TotalCount int `json:"totalCount"`
			Items      struct {
				Item []apiItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// apiItem carries numbers as strings; they are parsed into decimals so no
// digit is lost on the way into storage
type apiItem struct {
	BaseDate            string `json:"basDt"`
	IndexClassification string `json:"idxCsf"`
	IndexName           string `json:"idxNm"`
	MarketPrice         string `json:"mkp"`
	ClosingPrice        string `json:"clpr"`
	HighPrice           string `json:"hipr"`
	LowPrice            string `json:"lopr"`
	Versus              string `json:"vs"`
	FluctuationRate     string `json:"fltRt"`
	TradingQuantity     string `json:"trqu"`
	TradingPrice        string `json:"trPrc"`
	MarketTotalAmount   string `json:"lstgMktTotAmt"`
}

const resultCodeOK = "00"

// FetchIndexData fetches every observation of one index in [from, to],
// walking the API's own pagination until the reported total is exhausted.
func (c *Client) FetchIndexData(ctx context.Context, indexName string, from, to time.Time) ([]Observation, error) {
	var all []Observation

	for pageNo := 1; ; pageNo++ {
		select {
		case <-ctx.Done():
			return all, ctx.Err()
		default:
		}

		page, total, err := c.fetchPage(ctx, indexName, from, to, pageNo)
		if err != nil {
			return all, err
		}
		all = append(all, page...)

		if len(all) >= total || len(page) == 0 {
			break
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"index_name": indexName,
		"count":      len(all),
	}).Debug("Fetched index data from Open API")
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, indexName string, from, to time.Time, pageNo int) ([]Observation, int, error) {
	params := url.Values{}
	params.Set("serviceKey", c.serviceKey)
	params.Set("resultType", "json")
	params.Set("idxNm", indexName)
	params.Set("beginBasDt", from.Format("20060102"))
	params.Set("endBasDt", to.AddDate(0, 0, 1).Format("20060102")) // endBasDt is exclusive
	params.Set("pageNo", fmt.Sprintf("%d", pageNo))
	params.Set("numOfRows", fmt.Sprintf("%d", c.pageSize))

	fullURL := fmt.Sprintf("%s/getStockMarketIndex?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return parseResponse(body)
}

// parseResponse decodes one page of the API payload
func parseResponse(body []byte) ([]Observation, int, error) {
	var payload apiResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, fmt.Errorf("decode API response: %w", err)
	}

	header := payload.Response.Header
	if header.ResultCode != resultCodeOK {
		return nil, 0, fmt.Errorf("API error %s: %s", header.ResultCode, header.ResultMsg)
	}

	items := payload.Response.Body.Items.Item
	observations := make([]Observation, 0, len(items))
	for _, item := range items {
		obs, err := item.toObservation()
		if err != nil {
			return nil, 0, err
		}
		observations = append(observations, obs)
	}

	return observations, payload.Response.Body.TotalCount, nil
}

func (item apiItem) toObservation() (Observation, error) {
	var obs Observation

	baseDate, err := time.Parse("20060102", item.BaseDate)
	if err != nil {
		return obs, fmt.Errorf("parse base date %q: %w", item.BaseDate, err)
	}

	obs = Observation{
		IndexClassification: item.IndexClassification,
		IndexName:           item.IndexName,
		BaseDate:            baseDate,
	}

	fields := []struct {
		dst  *decimal.Decimal
		src  string
		name string
	}{
		{&obs.MarketPrice, item.MarketPrice, "mkp"},
		{&obs.ClosingPrice, item.ClosingPrice, "clpr"},
		{&obs.HighPrice, item.HighPrice, "hipr"},
		{&obs.LowPrice, item.LowPrice, "lopr"},
		{&obs.Versus, item.Versus, "vs"},
		{&obs.FluctuationRate, item.FluctuationRate, "fltRt"},
		{&obs.TradingPrice, item.TradingPrice, "trPrc"},
		{&obs.MarketTotalAmount, item.MarketTotalAmount, "lstgMktTotAmt"},
	}
	for _, f := range fields {
		d, err := parseDecimal(f.src)
		if err != nil {
			return obs, fmt.Errorf("parse %s %q: %w", f.name, f.src, err)
		}
		*f.dst = d
	}

	quantity, err := parseDecimal(item.TradingQuantity)
	if err != nil {
		return obs, fmt.Errorf("parse trqu %q: %w", item.TradingQuantity, err)
	}
	obs.TradingQuantity = quantity.IntPart()

	return obs, nil
}

// parseDecimal tolerates the blanks the API emits for missing figures
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" || s == "-" {
		return decimal.Decimal{}, nil
	}
	return decimal.NewFromString(s)
}

// IndexValue converts an observation into a persistable record for indexID
func (o Observation) IndexValue(indexID int64) contracts.IndexValue {
	return contracts.IndexValue{
		IndexID:           indexID,
		BaseDate:          o.BaseDate,
		SourceType:        contracts.SourceOpenAPI,
		MarketPrice:       o.MarketPrice,
		ClosingPrice:      o.ClosingPrice,
		HighPrice:         o.HighPrice,
		LowPrice:          o.LowPrice,
		Versus:            o.Versus,
		FluctuationRate:   o.FluctuationRate,
		TradingQuantity:   o.TradingQuantity,
		TradingPrice:      o.TradingPrice,
		MarketTotalAmount: o.MarketTotalAmount,
	}
}
