package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PageAudit is the working state of one page while the analyzers run.
// It is filled in by pipeline steps and converted to result-file entries
// once all steps are done.
type PageAudit struct {
	// URL is the audited page.
	URL string

	// Payloads holds each tool's raw JSON result.
	Payloads map[Tool]json.RawMessage

	// Errors holds the failure of each tool that could not produce a result.
	// A failed tool contributes no findings for the page.
	Errors map[Tool]error

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string

	// TimedOut is set when the audit was cancelled before all steps ran.
	TimedOut bool

	// Duration is the wall time spent on the page.
	Duration time.Duration
}

// NewPageAudit creates an empty PageAudit for url.
func NewPageAudit(url string) *PageAudit {
	return &PageAudit{
		URL:            url,
		Payloads:       make(map[Tool]json.RawMessage),
		Errors:         make(map[Tool]error),
		PerformedSteps: make([]string, 0),
	}
}

// SetPayload records a tool's raw result.
func (p *PageAudit) SetPayload(t Tool, payload json.RawMessage) {
	p.Payloads[t] = payload
	delete(p.Errors, t)
}

// SetError records a tool failure.
func (p *PageAudit) SetError(t Tool, err error) {
	p.Errors[t] = err
	delete(p.Payloads, t)
}

// Entry returns the result-file entry for tool t, for example
// {"url": ..., "axe_result": {...}}. A failed pa11y run yields an empty
// result list and a failed axe run an empty object; a failed Lighthouse run
// yields no entry at all (ok is false).
func (p *PageAudit) Entry(t Tool) (entry json.RawMessage, ok bool, err error) {
	payload, found := p.Payloads[t]
	if !found {
		switch t {
		case ToolPa11y:
			payload = json.RawMessage(`[]`)
		case ToolAxe:
			payload = json.RawMessage(`{}`)
		default:
			return nil, false, nil
		}
	}

	data, err := EncodeEntry(p.URL, t, payload)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Entries returns the result-file entries of all tools that have one.
func (p *PageAudit) Entries() (map[Tool]json.RawMessage, error) {
	entries := make(map[Tool]json.RawMessage, len(Tools()))
	for _, t := range Tools() {
		entry, ok, err := p.Entry(t)
		if err != nil {
			return nil, err
		}
		if ok {
			entries[t] = entry
		}
	}
	return entries, nil
}

// EncodeEntry wraps a raw tool payload into a result-file entry.
// HTML in the payload is kept verbatim rather than escaped.
func EncodeEntry(url string, t Tool, payload json.RawMessage) (json.RawMessage, error) {
	if !json.Valid(payload) {
		return nil, fmt.Errorf("invalid %s payload for %s", t, url)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]json.RawMessage{
		"url":          mustString(url),
		t.PayloadKey(): payload,
	}); err != nil {
		return nil, fmt.Errorf("failed to encode %s entry: %w", t, err)
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// mustString encodes s as a JSON string.
func mustString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) //nolint:errcheck // encoding a string cannot fail
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n"))
}

// ToolError records that a tool failed for a URL.
type ToolError struct {
	URL     string `json:"url"`
	Tool    Tool   `json:"tool"`
	Message string `json:"message"`
}

// Audit is one complete audit run over a set of pages.
type Audit struct {
	ID         string         `json:"id"`
	SeedURL    string         `json:"seed_url"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Pages      []string       `json:"pages"`
	Reports    []PageReport   `json:"reports"`
	Overall    ScoreBreakdown `json:"overall"`
	PerURL     []URLScore     `json:"per_url"`
	ToolErrors []ToolError    `json:"tool_errors,omitempty"`
}

// NewAudit creates an Audit for seedURL with a fresh ID.
func NewAudit(seedURL string) *Audit {
	return &Audit{
		ID:        uuid.NewString(),
		SeedURL:   seedURL,
		StartedAt: time.Now(),
		Pages:     make([]string, 0),
		Reports:   make([]PageReport, 0),
		Overall:   PerfectScore(),
		PerURL:    make([]URLScore, 0),
	}
}

// RecordToolErrors copies the tool failures of a page into the audit.
// Failures are recorded in tool priority order.
func (a *Audit) RecordToolErrors(p *PageAudit) {
	for _, t := range Tools() {
		if err, ok := p.Errors[t]; ok && err != nil {
			a.ToolErrors = append(a.ToolErrors, ToolError{
				URL:     p.URL,
				Tool:    t,
				Message: err.Error(),
			})
		}
	}
}

// Duration returns how long the audit took.
func (a *Audit) Duration() time.Duration {
	if a.FinishedAt.IsZero() {
		return 0
	}
	return a.FinishedAt.Sub(a.StartedAt)
}
