package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const commandLineRule = `
title: Mimikatz Keyword In Command Line
logsource:
  category: process_creation
  product: windows
detection:
  selection:
    CommandLine|contains: 'mimikatz'
  condition: selection
level: critical
`

func newTestServer() *Server {
	return New(Config{CORSOrigins: []string{"*"}})
}

func TestHandleSingleConvertReturnsRenderedQuery(t *testing.T) {
	srv := newTestServer()
	body, _ := json.Marshal(convertRequest{
		SigmaRuleYmlContent: commandLineRule,
		DestinationType:     "splunk",
	})
	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var result convertResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("expected valid JSON response: %v", err)
	}
	if result.Error != "" {
		t.Fatalf("unexpected conversion error: %s", result.Error)
	}
	if !strings.Contains(result.Data, "mimikatz") {
		t.Fatalf("expected rendered splunk query in response data: %s", result.Data)
	}
}

func TestHandleSingleConvertReturns400ForUnknownTarget(t *testing.T) {
	srv := newTestServer()
	body, _ := json.Marshal(convertRequest{
		SigmaRuleYmlContent: commandLineRule,
		DestinationType:     "not-a-real-backend",
	})
	req := httptest.NewRequest(http.MethodPost, "/convert", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var result convertResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("expected valid JSON response: %v", err)
	}
	if result.Error == "" {
		t.Fatalf("expected a non-empty error message")
	}
}

func TestHandleBatchConvertReportsPerEntryErrorsWithoutAborting(t *testing.T) {
	srv := newTestServer()
	body, _ := json.Marshal(batchConvertRequest{SigmaRules: []convertRequest{
		{SigmaRuleYmlContent: commandLineRule, DestinationType: "splunk"},
		{SigmaRuleYmlContent: commandLineRule, DestinationType: "not-a-real-backend"},
		{SigmaRuleYmlContent: commandLineRule, DestinationType: "sentinel"},
	}})
	req := httptest.NewRequest(http.MethodPost, "/batch-convert", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 even with a failing entry, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp batchConvertResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected valid JSON response: %v", err)
	}
	if len(resp.Rules) != 3 {
		t.Fatalf("expected all 3 entries reported, got %d", len(resp.Rules))
	}
	if resp.Rules[0].Error != "" || resp.Rules[0].Data == "" {
		t.Fatalf("expected the first entry to succeed: %+v", resp.Rules[0])
	}
	if resp.Rules[1].Error == "" {
		t.Fatalf("expected the second entry to report its own error: %+v", resp.Rules[1])
	}
	if resp.Rules[2].Error != "" || resp.Rules[2].Data == "" {
		t.Fatalf("expected the third entry to still succeed despite the second failing: %+v", resp.Rules[2])
	}
}

func TestHandleSingleConvertRejectsMalformedJsonBody(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON body, got %d", rec.Code)
	}
}

func TestMetricsEndpointIsRegistered(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
}
