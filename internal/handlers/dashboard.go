package handlers

import (
	"html/template"
	"net/http"
)

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Retail Calendar Insights</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@main/bundles/datastar.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; background: #f7f7f9; }
h1 { margin-bottom: 0.25rem; }
.caption { color: #666; margin-bottom: 1.5rem; }
.panel { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; margin-bottom: 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
.modern-table { border-collapse: collapse; width: 100%; }
.modern-table th, .modern-table td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #eee; }
.modern-table th { background: #fafafa; }
</style>
</head>
<body>
<h1>Retail Calendar Insights</h1>
<p class="caption">Seasonality, spike days and driver explanations (transactions, units, AOV, category mix).</p>

<div class="panel" data-on-load="@get('/sse/spike-days')">
<h2>Top Spike Days</h2>
<div id="spikes-content">Loading…</div>
</div>

<div class="panel" data-on-load="@get('/sse/dow-summary')">
<h2>Day-of-Week Seasonality</h2>
<div id="dow-content">Loading…</div>
</div>

<div class="panel" data-on-load="@get('/sse/month-summary')">
<h2>Monthly Revenue</h2>
<div id="monthly-content">Loading…</div>
</div>

<button data-on-click="@get('/sse/refresh-all')">Refresh all</button>
</body>
</html>`))

const cacheMaxAge = "public, max-age=300"

// HandleDashboard serves the dashboard shell; the panels load their data
// through the datastar SSE endpoints.
func HandleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := dashboardTemplate.Execute(w, nil); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}
