package openapi

import (
	"testing"
	"time"
)

func TestParseResponse(t *testing.T) {
	body := []byte(`{
		"response": {
			"header": {"resultCode": "00", "resultMsg": "NORMAL SERVICE."},
			"body": {
				"numOfRows": 2, "pageNo": 1, "totalCount": 2,
				"items": {"item": [
					{
						"basDt": "20240115", "idxCsf": "KOSPI시리즈", "idxNm": "코스피",
						"mkp": "2520.11", "clpr": "2525.05", "hipr": "2530.99", "lopr": "2515.01",
						"vs": "12.34", "fltRt": "0.49",
						"trqu": "531943", "trPrc": "9283745192837", "lstgMktTotAmt": "2083745192837465"
					},
					{
						"basDt": "20240116", "idxCsf": "KOSPI시리즈", "idxNm": "코스피",
						"mkp": "2525.05", "clpr": "2510.00", "hipr": "2526.40", "lopr": "2508.33",
						"vs": "-15.05", "fltRt": "-0.60",
						"trqu": "498211", "trPrc": "8837261728371", "lstgMktTotAmt": "2071625371826354"
					}
				]}
			}
		}
	}`)

	observations, total, err := parseResponse(body)
	if err != nil {
		t.Fatalf("parseResponse() error = %v", err)
	}
	if total != 2 {
		t.Errorf("parseResponse() total = %d, want 2", total)
	}
	if len(observations) != 2 {
		t.Fatalf("parseResponse() got %d observations, want 2", len(observations))
	}

	first := observations[0]
	wantDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !first.BaseDate.Equal(wantDate) {
		t.Errorf("BaseDate = %v, want %v", first.BaseDate, wantDate)
	}
	if first.IndexName != "코스피" {
		t.Errorf("IndexName = %q", first.IndexName)
	}
	if got := first.ClosingPrice.String(); got != "2525.05" {
		t.Errorf("ClosingPrice = %s, want 2525.05", got)
	}
	if first.TradingQuantity != 531943 {
		t.Errorf("TradingQuantity = %d, want 531943", first.TradingQuantity)
	}

	second := observations[1]
	if got := second.Versus.String(); got != "-15.05" {
		t.Errorf("Versus = %s, want -15.05", got)
	}
	if got := second.FluctuationRate.String(); got != "-0.6" {
		t.Errorf("FluctuationRate = %s, want -0.6", got)
	}
}

func TestParseResponseAPIError(t *testing.T) {
	body := []byte(`{
		"response": {
			"header": {"resultCode": "30", "resultMsg": "SERVICE KEY IS NOT REGISTERED ERROR."},
			"body": {"items": {"item": []}}
		}
	}`)

	_, _, err := parseResponse(body)
	if err == nil {
		t.Fatal("parseResponse() expected error for non-zero result code")
	}
}

func TestParseResponseBlankFigures(t *testing.T) {
	body := []byte(`{
		"response": {
			"header": {"resultCode": "00", "resultMsg": "NORMAL SERVICE."},
			"body": {
				"totalCount": 1,
				"items": {"item": [
					{
						"basDt": "20240115", "idxCsf": "테마지수", "idxNm": "KRX 반도체",
						"mkp": "", "clpr": "3301.12", "hipr": "-", "lopr": "",
						"vs": "", "fltRt": "",
						"trqu": "", "trPrc": "", "lstgMktTotAmt": ""
					}
				]}
			}
		}
	}`)

	observations, _, err := parseResponse(body)
	if err != nil {
		t.Fatalf("parseResponse() error = %v", err)
	}
	if len(observations) != 1 {
		t.Fatalf("got %d observations, want 1", len(observations))
	}
	if !observations[0].MarketPrice.IsZero() {
		t.Errorf("blank mkp should parse as zero, got %s", observations[0].MarketPrice)
	}
	if observations[0].TradingQuantity != 0 {
		t.Errorf("blank trqu should parse as zero, got %d", observations[0].TradingQuantity)
	}
}

func TestObservationToIndexValue(t *testing.T) {
	body := []byte(`{
		"response": {
			"header": {"resultCode": "00", "resultMsg": "NORMAL SERVICE."},
			"body": {
				"totalCount": 1,
				"items": {"item": [
					{
						"basDt": "20240115", "idxCsf": "KOSPI시리즈", "idxNm": "코스피",
						"mkp": "2520.11", "clpr": "2525.05", "hipr": "2530.99", "lopr": "2515.01",
						"vs": "12.34", "fltRt": "0.49",
						"trqu": "531943", "trPrc": "9283745192837", "lstgMktTotAmt": "2083745192837465"
					}
				]}
			}
		}
	}`)

	observations, _, err := parseResponse(body)
	if err != nil {
		t.Fatalf("parseResponse() error = %v", err)
	}

	v := observations[0].IndexValue(7)
	if v.IndexID != 7 {
		t.Errorf("IndexID = %d, want 7", v.IndexID)
	}
	if v.SourceType != "OPEN_API" {
		t.Errorf("SourceType = %q, want OPEN_API", v.SourceType)
	}
	if got := v.ClosingPrice.String(); got != "2525.05" {
		t.Errorf("ClosingPrice = %s", got)
	}
}
