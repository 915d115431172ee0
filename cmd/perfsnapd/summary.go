package main

import (
	"io"
	"net/http"

	"github.com/getsentry/sentry-go"
	json "github.com/goccy/go-json"

	"github.com/perfsnap/perfsnap/internal/nodetree"
	"github.com/perfsnap/perfsnap/internal/profile"
	"github.com/perfsnap/perfsnap/internal/report"
)

type (
	summariesRequest struct {
		Profiles []namedProfileRequest `json:"profiles"`
	}

	namedProfileRequest struct {
		Name    string          `json:"name"`
		Profile profile.Profile `json:"profile"`
	}
)

// postSummary renders the report for a single profile document. The
// optional focus query parameter narrows the report to the heaviest
// subtree rooted at a function with that name.
func (e *environment) postSummary(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, e.config.MaxRequestBytes))
	if err != nil {
		captureError(r, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var p profile.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		captureError(r, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var selected *nodetree.Node
	if focus := r.URL.Query().Get("focus"); focus != "" {
		selected = p.Tree.FindByName(focus)
		if selected == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
	}

	writeText(w, report.Summary(&p, selected))
}

// postSummaries renders one combined report for an ordered list of
// named profiles.
func (e *environment) postSummaries(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, e.config.MaxRequestBytes))
	if err != nil {
		captureError(r, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req summariesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		captureError(r, err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	profiles := make([]report.NamedProfile, 0, len(req.Profiles))
	for i := range req.Profiles {
		profiles = append(profiles, report.NamedProfile{
			Name:    req.Profiles[i].Name,
			Profile: &req.Profiles[i].Profile,
		})
	}

	writeText(w, report.MultiSummary(profiles))
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func captureError(r *http.Request, err error) {
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
	}
}
