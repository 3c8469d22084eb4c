package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	smokeBaseURL  string
	smokeName     string
	smokeCategory string
	smokeLocation string
	smokeTimeout  time.Duration
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run live smoke checks against a running API server",
	Long:  "Drives the full endpoint surface of a running instance: health, analyze, get-by-id, list, input validation, and unknown-id handling. Fails when any check fails.",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := newSmokeRunner(smokeBaseURL, smokeTimeout)
		results := runner.Run(cmd.Context(), smokeName, smokeCategory, smokeLocation)

		formatSmokeResults(os.Stdout, results)

		failed := 0
		for _, r := range results {
			if !r.Passed {
				failed++
			}
		}
		if failed > 0 {
			return eris.Errorf("%d of %d smoke checks failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	smokeCmd.Flags().StringVar(&smokeBaseURL, "base-url", "http://localhost:8001", "base URL of the running server")
	smokeCmd.Flags().StringVar(&smokeName, "name", "Wedding Makeover Studio", "business name for the analysis check")
	smokeCmd.Flags().StringVar(&smokeCategory, "category", "Makeup Artist", "business category for the analysis check")
	smokeCmd.Flags().StringVar(&smokeLocation, "location", "New York, NY", "location for the analysis check")
	smokeCmd.Flags().DurationVar(&smokeTimeout, "timeout", 2*time.Minute, "per-request timeout")
	rootCmd.AddCommand(smokeCmd)
}

// smokeResult is the outcome of one check.
type smokeResult struct {
	Name    string
	Passed  bool
	Details string
}

func pass(name, details string) smokeResult {
	return smokeResult{Name: name, Passed: true, Details: details}
}

func fail(name, details string) smokeResult {
	return smokeResult{Name: name, Passed: false, Details: details}
}

// smokeRunner drives the API of a live server and carries state between
// checks (the analysis ID produced by the analyze check).
type smokeRunner struct {
	base       string
	client     *http.Client
	analysisID string
}

func newSmokeRunner(baseURL string, timeout time.Duration) *smokeRunner {
	return &smokeRunner{
		base:   strings.TrimRight(baseURL, "/") + "/api",
		client: &http.Client{Timeout: timeout},
	}
}

// Run executes every check in order and returns their results. Checks that
// depend on earlier state (the stored analysis ID) degrade to failures when
// that state is missing.
func (s *smokeRunner) Run(ctx context.Context, name, category, location string) []smokeResult {
	results := []smokeResult{
		s.checkHealth(ctx),
		s.checkAnalyze(ctx, name, category, location),
		s.checkGetAnalysis(ctx),
		s.checkListAnalyses(ctx),
	}
	results = append(results, s.checkValidation(ctx)...)
	results = append(results, s.checkUnknownID(ctx))
	return results
}

func (s *smokeRunner) checkHealth(ctx context.Context) smokeResult {
	const name = "health"

	status, body, err := s.getJSON(ctx, "/health")
	if err != nil {
		return fail(name, err.Error())
	}
	if status != http.StatusOK {
		return fail(name, fmt.Sprintf("HTTP %d", status))
	}

	for _, field := range []string{"status", "database_connected", "gemini_configured", "timestamp"} {
		if _, ok := body[field]; !ok {
			return fail(name, fmt.Sprintf("missing field %q", field))
		}
	}
	if ok, _ := body["gemini_configured"].(bool); !ok {
		return fail(name, "gemini not configured")
	}
	if ok, _ := body["database_connected"].(bool); !ok {
		return fail(name, "database not connected")
	}
	return pass(name, "all systems operational")
}

func (s *smokeRunner) checkAnalyze(ctx context.Context, name, category, location string) smokeResult {
	const check = "analyze business"

	req := map[string]any{"business_name": name}
	if category != "" {
		req["business_category"] = category
	}
	if location != "" {
		req["location"] = location
	}

	status, body, err := s.postJSON(ctx, "/analyze-business", req)
	if err != nil {
		return fail(check, err.Error())
	}
	if status != http.StatusOK {
		return fail(check, fmt.Sprintf("HTTP %d", status))
	}
	if ok, _ := body["success"].(bool); !ok {
		return fail(check, "response indicates failure")
	}

	id, _ := body["analysis_id"].(string)
	if id == "" {
		return fail(check, "missing analysis_id")
	}

	data, _ := body["data"].(map[string]any)
	if data == nil {
		return fail(check, "missing analysis data")
	}
	for _, section := range []string{
		"business_info", "linkedin_profile", "tech_stack",
		"website_analysis", "business_intelligence", "outreach_message",
	} {
		if _, ok := data[section]; !ok {
			return fail(check, fmt.Sprintf("missing section %q", section))
		}
	}
	if intel, _ := data["business_intelligence"].(map[string]any); intel != nil {
		if msg, ok := intel["error"]; ok {
			return fail(check, fmt.Sprintf("AI analysis error: %v", msg))
		}
	}
	if outreach, _ := data["outreach_message"].(map[string]any); outreach != nil {
		if msg, ok := outreach["error"]; ok {
			return fail(check, fmt.Sprintf("outreach error: %v", msg))
		}
	}

	s.analysisID = id
	return pass(check, fmt.Sprintf("analysis completed (ID: %s)", id))
}

func (s *smokeRunner) checkGetAnalysis(ctx context.Context) smokeResult {
	const check = "get analysis by id"

	if s.analysisID == "" {
		return fail(check, "no analysis ID from previous check")
	}

	status, body, err := s.getJSON(ctx, "/analysis/"+s.analysisID)
	if err != nil {
		return fail(check, err.Error())
	}
	if status != http.StatusOK {
		return fail(check, fmt.Sprintf("HTTP %d", status))
	}
	if ok, _ := body["success"].(bool); !ok {
		return fail(check, "response indicates failure")
	}

	data, _ := body["data"].(map[string]any)
	if data == nil {
		return fail(check, "missing analysis data")
	}
	if got, _ := data["analysis_id"].(string); got != s.analysisID {
		return fail(check, fmt.Sprintf("ID mismatch: expected %s, got %s", s.analysisID, got))
	}
	return pass(check, "retrieved analysis "+s.analysisID)
}

func (s *smokeRunner) checkListAnalyses(ctx context.Context) smokeResult {
	const check = "list analyses"

	status, body, err := s.getJSON(ctx, "/analyses")
	if err != nil {
		return fail(check, err.Error())
	}
	if status != http.StatusOK {
		return fail(check, fmt.Sprintf("HTTP %d", status))
	}
	if ok, _ := body["success"].(bool); !ok {
		return fail(check, "response indicates failure")
	}

	items, _ := body["data"].([]any)
	if items == nil {
		return fail(check, "missing analyses data")
	}

	if s.analysisID != "" {
		found := false
		for _, item := range items {
			if m, ok := item.(map[string]any); ok && m["analysis_id"] == s.analysisID {
				found = true
				break
			}
		}
		if !found {
			return fail(check, fmt.Sprintf("analysis %s not in list", s.analysisID))
		}
	}
	return pass(check, fmt.Sprintf("retrieved %d analyses", len(items)))
}

// checkValidation exercises the analyze endpoint's input rejection paths.
func (s *smokeRunner) checkValidation(ctx context.Context) []smokeResult {
	var results []smokeResult

	cases := []struct {
		name string
		body map[string]any
	}{
		{"rejects empty business name", map[string]any{"business_name": "", "location": "New York"}},
		{"rejects missing business name", map[string]any{"location": "New York"}},
	}
	for _, c := range cases {
		status, _, err := s.postJSON(ctx, "/analyze-business", c.body)
		switch {
		case err != nil:
			results = append(results, fail(c.name, err.Error()))
		case status >= 400:
			results = append(results, pass(c.name, fmt.Sprintf("HTTP %d", status)))
		default:
			results = append(results, fail(c.name, fmt.Sprintf("expected an error status, got HTTP %d", status)))
		}
	}

	status, err := s.postRaw(ctx, "/analyze-business", "invalid json")
	switch {
	case err != nil:
		results = append(results, fail("rejects invalid JSON", err.Error()))
	case status >= 400:
		results = append(results, pass("rejects invalid JSON", fmt.Sprintf("HTTP %d", status)))
	default:
		results = append(results, fail("rejects invalid JSON", fmt.Sprintf("expected an error status, got HTTP %d", status)))
	}

	return results
}

func (s *smokeRunner) checkUnknownID(ctx context.Context) smokeResult {
	const check = "unknown analysis id"

	status, _, err := s.getJSON(ctx, "/analysis/smoke-test-unknown-id-12345")
	if err != nil {
		return fail(check, err.Error())
	}
	if status != http.StatusNotFound {
		return fail(check, fmt.Sprintf("expected 404, got HTTP %d", status))
	}
	return pass(check, "correctly returned 404")
}

func (s *smokeRunner) getJSON(ctx context.Context, path string) (int, map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+path, nil)
	if err != nil {
		return 0, nil, eris.Wrap(err, "smoke: build request")
	}
	return s.do(req)
}

func (s *smokeRunner) postJSON(ctx context.Context, path string, body map[string]any) (int, map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, eris.Wrap(err, "smoke: marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, eris.Wrap(err, "smoke: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *smokeRunner) postRaw(ctx context.Context, path, body string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+path, strings.NewReader(body))
	if err != nil {
		return 0, eris.Wrap(err, "smoke: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	status, _, err := s.do(req)
	return status, err
}

// do sends the request and decodes any JSON object body. Non-object bodies
// yield a nil map, not an error; callers check the status first.
func (s *smokeRunner) do(req *http.Request) (int, map[string]any, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, eris.Wrap(err, "smoke: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, eris.Wrap(err, "smoke: read response")
	}

	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body, nil
}

// formatSmokeResults writes a tabular pass/fail summary to w.
func formatSmokeResults(out io.Writer, results []smokeResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATUS\tCHECK\tDETAILS")
	_, _ = fmt.Fprintln(w, "------\t-----\t-------")

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", status, r.Name, r.Details)
	}

	_ = w.Flush()
}
