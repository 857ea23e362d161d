package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"retail-insights/internal/models"
	"retail-insights/internal/services"
)

const maxTableRows = 50

var spikeTableTemplate = template.Must(template.New("spikeTable").Parse(`
<div id="spikes-content">
<table class="modern-table">
<thead><tr><th>Date</th><th>Day</th><th>Revenue</th><th>Expected</th><th>Residual</th><th>Robust z</th></tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Date.Format "2006-01-02"}}</td>
<td>{{.Dow}}</td>
<td><strong>${{printf "%.2f" .Revenue}}</strong></td>
<td>${{printf "%.2f" .ExpectedRevenue}}</td>
<td>{{printf "%+.2f" .Residual}}</td>
<td>{{printf "%.2f" .RobustZResidual}}</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) renderSpikeTable(rows []models.ScoredDay) (string, error) {
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}

	var buf strings.Builder
	err := spikeTableTemplate.Execute(&buf, struct{ Rows []models.ScoredDay }{rows})
	return buf.String(), err
}

func (h *SSEHandlers) HandleSpikeDays(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderSpikeTable(h.analytics.TopSpikes(topNParam(r)))
	if err != nil {
		h.logger.Error("render spike table", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleDowSummary(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"dowData": h.analytics.DowSummary(),
	})
	if err != nil {
		h.logger.Error("marshal dow data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="dow-content">✅ Day-of-week chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleMonthSummary(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	jsonData, err := json.Marshal(map[string]any{
		"monthlyData": h.analytics.MonthSummary(),
	})
	if err != nil {
		h.logger.Error("marshal monthly data", "error", err)
		return
	}
	sse.PatchSignals(jsonData)

	sse.PatchElements(`<div id="monthly-content">✅ Monthly revenue chart data loaded</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	html, err := h.renderSpikeTable(h.analytics.TopSpikes(topNParam(r)))
	if err != nil {
		h.logger.Error("render spike table", "error", err)
		return
	}
	sse.PatchElements(html)

	allSignals, err := json.Marshal(map[string]any{
		"dowData":     h.analytics.DowSummary(),
		"monthlyData": h.analytics.MonthSummary(),
		"quality":     h.analytics.QualitySummary(),
	})
	if err != nil {
		h.logger.Error("marshal all signals data", "error", err)
		return
	}
	sse.PatchSignals(allSignals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
