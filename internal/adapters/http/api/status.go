package api

import (
	"net/http"
	"time"

	service "github.com/okian/folio/internal/app"
)

// StatusHandler reports the outcome of the last render pass.
type StatusHandler struct {
	deps Dependencies
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(deps Dependencies) *StatusHandler {
	return &StatusHandler{deps: deps}
}

type datasetStatus struct {
	Dataset    string  `json:"dataset"`
	URL        string  `json:"url"`
	OK         bool    `json:"ok"`
	Records    int     `json:"records"`
	Fragments  int     `json:"fragments"`
	DurationMs float64 `json:"duration_ms"`
	Kind       string  `json:"kind,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type statusResponse struct {
	Pending    bool            `json:"pending"`
	PassID     string          `json:"pass_id,omitempty"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	OK         bool            `json:"ok"`
	Datasets   []datasetStatus `json:"datasets"`
}

// HandleStatus handles GET /status requests.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	report, ok := h.deps.LastReport()
	if !ok {
		writeJSON(w, http.StatusOK, statusResponse{Pending: true, Datasets: []datasetStatus{}})
		return
	}
	writeJSON(w, http.StatusOK, newStatusResponse(report))
}

func newStatusResponse(report service.Report) statusResponse {
	resp := statusResponse{
		PassID:     report.PassID,
		StartedAt:  &report.StartedAt,
		FinishedAt: &report.FinishedAt,
		OK:         report.OK(),
		Datasets:   make([]datasetStatus, 0, len(report.Results)),
	}
	for _, res := range report.Results {
		ds := datasetStatus{
			Dataset:    string(res.Dataset),
			URL:        res.URL,
			OK:         res.OK(),
			Records:    res.Records,
			Fragments:  res.Fragments,
			DurationMs: float64(res.Duration.Microseconds()) / 1000,
		}
		if res.Err != nil {
			ds.Kind = service.ErrorKind(res.Err)
			ds.Error = res.Err.Error()
		}
		resp.Datasets = append(resp.Datasets, ds)
	}
	return resp
}
