package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/cardforge/cardforge/internal/catalog"
)

// handleDashboard serves the main dashboard HTML page
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var runs []RunSummary
	var stats *StatsResponse
	var tree []catalog.TreeNode

	fetchedRuns, err := s.runs.GetRuns(ctx, 20)
	if err != nil {
		s.logger.Error("failed to get runs for dashboard", "error", err)
	} else {
		runs = fetchedRuns
	}

	fetchedStats, err := s.runs.GetStats(ctx)
	if err != nil {
		s.logger.Error("failed to get stats for dashboard", "error", err)
	} else {
		stats = fetchedStats
	}

	if s.catalog != nil {
		tree = s.catalog.Tree()
	}

	data := DashboardData{
		Title:   "Cardforge Dashboard",
		Runs:    runs,
		Stats:   stats,
		Catalog: tree,
		Version: version,
		Uptime:  s.Uptime(),
	}

	tmpl := template.Must(template.New("dashboard").Funcs(templateFuncs).Parse(dashboardTemplate))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render dashboard template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleRunDetail serves the run detail page
func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	runID := r.PathValue("id")

	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := s.runs.GetRun(ctx, runID)
	if err != nil {
		s.logger.Error("failed to get run for detail page", "run_id", runID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	data := RunDetailData{
		Title: "Run: " + runID,
		Run:   run,
	}

	tmpl := template.Must(template.New("rundetail").Funcs(templateFuncs).Parse(runDetailTemplate))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render run detail template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// DashboardData holds data for the dashboard template
type DashboardData struct {
	Title   string
	Runs    []RunSummary
	Stats   *StatsResponse
	Catalog []catalog.TreeNode
	Version string
	Uptime  string
}

// RunDetailData holds data for the run detail template
type RunDetailData struct {
	Title string
	Run   *RunDetail
}

// templateFuncs provides custom template functions
var templateFuncs = template.FuncMap{
	"formatTime": func(t *time.Time) string {
		if t == nil {
			return "N/A"
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"formatDuration": func(ms float64) string {
		duration := time.Duration(ms) * time.Millisecond
		if duration < time.Second {
			return duration.String()
		}
		return duration.Round(time.Millisecond).String()
	},
	"statusBadge": func(status string) template.HTML {
		switch status {
		case "completed", "succeeded":
			return template.HTML(`<span class="badge badge-success">` + template.HTMLEscapeString(status) + `</span>`)
		case "failed":
			return template.HTML(`<span class="badge badge-danger">failed</span>`)
		case "running", "queued":
			return template.HTML(`<span class="badge badge-info">` + template.HTMLEscapeString(status) + `</span>`)
		case "cancelled", "skipped-cancelled":
			return template.HTML(`<span class="badge badge-warning">` + template.HTMLEscapeString(status) + `</span>`)
		default:
			return template.HTML(`<span class="badge badge-secondary">` + template.HTMLEscapeString(status) + `</span>`)
		}
	},
	"truncate": func(s string, max int) string {
		if len(s) <= max {
			return s
		}
		return s[:max] + "..."
	},
}

// dashboardTemplate is the main dashboard HTML template
const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: #f5f5f5; color: #333; line-height: 1.6; }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        header { background: #2c3e50; color: white; padding: 20px 0; margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        header h1 { font-size: 28px; margin-bottom: 5px; }
        header .meta { font-size: 14px; opacity: 0.8; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 20px; margin-bottom: 30px; }
        .stat-card { background: white; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .stat-card h3 { font-size: 14px; color: #7f8c8d; margin-bottom: 8px; text-transform: uppercase; }
        .stat-card .value { font-size: 32px; font-weight: bold; color: #2c3e50; }
        .section { background: white; padding: 25px; border-radius: 8px; margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .section h2 { font-size: 20px; margin-bottom: 20px; color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
        table { width: 100%; border-collapse: collapse; }
        th { background: #f8f9fa; text-align: left; padding: 12px; font-weight: 600; border-bottom: 2px solid #dee2e6; }
        td { padding: 12px; border-bottom: 1px solid #dee2e6; }
        tr:hover { background: #f8f9fa; }
        .badge { display: inline-block; padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: 600; text-transform: uppercase; }
        .badge-success { background: #d4edda; color: #155724; }
        .badge-danger { background: #f8d7da; color: #721c24; }
        .badge-info { background: #d1ecf1; color: #0c5460; }
        .badge-warning { background: #fff3cd; color: #856404; }
        .badge-secondary { background: #e2e3e5; color: #383d41; }
        .empty { text-align: center; padding: 40px; color: #7f8c8d; }
        a { color: #3498db; text-decoration: none; }
        a:hover { text-decoration: underline; }
        code { background: #f8f9fa; padding: 2px 6px; border-radius: 3px; font-family: monospace; font-size: 13px; }
        ul.tree { list-style: none; padding-left: 20px; }
        ul.tree > li { padding: 3px 0; }
    </style>
</head>
<body>
    <header>
        <div class="container">
            <h1>{{.Title}}</h1>
            <div class="meta">Version: {{.Version}} | Uptime: {{.Uptime}}</div>
        </div>
    </header>

    <div class="container">
        {{if .Stats}}
        <div class="stats">
            <div class="stat-card">
                <h3>Total Runs</h3>
                <div class="value">{{.Stats.TotalRuns}}</div>
            </div>
            <div class="stat-card">
                <h3>Live Runs</h3>
                <div class="value">{{.Stats.LiveRuns}}</div>
            </div>
            <div class="stat-card">
                <h3>Completed</h3>
                <div class="value">{{.Stats.CompletedRuns}}</div>
            </div>
            <div class="stat-card">
                <h3>Cards Generated</h3>
                <div class="value">{{.Stats.CardsGenerated}}</div>
            </div>
        </div>
        {{end}}

        <div class="section">
            <h2>Recent Runs ({{len .Runs}})</h2>
            {{if .Runs}}
            <table>
                <thead>
                    <tr>
                        <th>Run ID</th>
                        <th>Facility</th>
                        <th>Equipment Class</th>
                        <th>Quantity</th>
                        <th>Succeeded / Failed / Skipped</th>
                        <th>Created</th>
                        <th>Duration</th>
                        <th>Status</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Runs}}
                    <tr>
                        <td><a href="/runs/{{.RunID}}"><code>{{truncate .RunID 12}}</code></a></td>
                        <td>{{.Sector}}/{{.SubSector}}/{{.Facility}}</td>
                        <td><code>{{.EquipmentClass}}</code></td>
                        <td>{{.Quantity}}</td>
                        <td>{{.Succeeded}} / {{.Failed}} / {{.Skipped}}</td>
                        <td>{{.CreatedAt.Format "2006-01-02 15:04:05"}}</td>
                        <td>{{formatDuration .Duration}}</td>
                        <td>{{statusBadge .Status}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{else}}
            <div class="empty">No runs yet</div>
            {{end}}
        </div>

        <div class="section">
            <h2>Catalog</h2>
            {{if .Catalog}}
            <ul class="tree">
                {{range .Catalog}}
                <li><strong>{{.Name}}</strong> <code>{{.Code}}</code>
                    <ul class="tree">
                        {{range .Children}}
                        <li>{{.Name}} <code>{{.Code}}</code>
                            <ul class="tree">
                                {{range .Children}}
                                <li>{{.Name}} <code>{{.Code}}</code></li>
                                {{end}}
                            </ul>
                        </li>
                        {{end}}
                    </ul>
                </li>
                {{end}}
            </ul>
            {{else}}
            <div class="empty">No catalog loaded</div>
            {{end}}
        </div>
    </div>
</body>
</html>`

// runDetailTemplate is the run detail HTML template
const runDetailTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: #f5f5f5; color: #333; line-height: 1.6; }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        header { background: #2c3e50; color: white; padding: 20px 0; margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        header h1 { font-size: 28px; margin-bottom: 5px; }
        header a { color: white; opacity: 0.8; text-decoration: none; }
        header a:hover { opacity: 1; text-decoration: underline; }
        .run-info { background: white; padding: 25px; border-radius: 8px; margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .run-info h2 { font-size: 20px; margin-bottom: 20px; color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
        .info-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(250px, 1fr)); gap: 15px; }
        .info-item { padding: 10px 0; }
        .info-item label { display: block; font-size: 12px; color: #7f8c8d; text-transform: uppercase; margin-bottom: 5px; }
        .info-item .value { font-size: 16px; font-weight: 500; }
        .section { background: white; padding: 25px; border-radius: 8px; margin-bottom: 30px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .section h2 { font-size: 20px; margin-bottom: 20px; color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
        table { width: 100%; border-collapse: collapse; }
        th { background: #f8f9fa; text-align: left; padding: 12px; font-weight: 600; border-bottom: 2px solid #dee2e6; }
        td { padding: 12px; border-bottom: 1px solid #dee2e6; }
        tr:hover { background: #f8f9fa; }
        .badge { display: inline-block; padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: 600; text-transform: uppercase; }
        .badge-success { background: #d4edda; color: #155724; }
        .badge-danger { background: #f8d7da; color: #721c24; }
        .badge-info { background: #d1ecf1; color: #0c5460; }
        .badge-warning { background: #fff3cd; color: #856404; }
        .badge-secondary { background: #e2e3e5; color: #383d41; }
        .empty { text-align: center; padding: 40px; color: #7f8c8d; }
        code { background: #f8f9fa; padding: 2px 6px; border-radius: 3px; font-family: monospace; font-size: 13px; }
    </style>
</head>
<body>
    <header>
        <div class="container">
            <div><a href="/">&larr; Back to Dashboard</a></div>
            <h1>{{.Title}}</h1>
        </div>
    </header>

    <div class="container">
        <div class="run-info">
            <h2>Run Details</h2>
            <div class="info-grid">
                <div class="info-item">
                    <label>Run ID</label>
                    <div class="value"><code>{{.Run.RunID}}</code></div>
                </div>
                <div class="info-item">
                    <label>Facility</label>
                    <div class="value">{{.Run.Sector}}/{{.Run.SubSector}}/{{.Run.Facility}}</div>
                </div>
                <div class="info-item">
                    <label>Equipment Class</label>
                    <div class="value"><code>{{.Run.EquipmentClass}}</code></div>
                </div>
                <div class="info-item">
                    <label>Status</label>
                    <div class="value">{{statusBadge .Run.Status}}</div>
                </div>
                <div class="info-item">
                    <label>Quantity</label>
                    <div class="value">{{.Run.Quantity}}</div>
                </div>
                <div class="info-item">
                    <label>Succeeded / Failed / Skipped</label>
                    <div class="value">{{.Run.Succeeded}} / {{.Run.Failed}} / {{.Run.Skipped}}</div>
                </div>
                <div class="info-item">
                    <label>Created</label>
                    <div class="value">{{.Run.CreatedAt.Format "2006-01-02 15:04:05"}}</div>
                </div>
                <div class="info-item">
                    <label>Finished</label>
                    <div class="value">{{formatTime .Run.FinishedAt}}</div>
                </div>
            </div>
            {{if .Run.Error}}
            <div class="info-item">
                <label>Error</label>
                <div class="value"><code>{{.Run.Error}}</code></div>
            </div>
            {{end}}
        </div>

        <div class="section">
            <h2>Items ({{len .Run.Items}})</h2>
            {{if .Run.Items}}
            <table>
                <thead>
                    <tr>
                        <th>Index</th>
                        <th>Outcome</th>
                        <th>Card</th>
                        <th>Error</th>
                        <th>Finished</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Run.Items}}
                    <tr>
                        <td>{{.Index}}</td>
                        <td>{{statusBadge .Outcome}}</td>
                        <td><code>{{truncate .CardRef 60}}</code></td>
                        <td>{{truncate .Error 80}}</td>
                        <td>{{if .FinishedAt.IsZero}}N/A{{else}}{{.FinishedAt.Format "2006-01-02 15:04:05"}}{{end}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{else}}
            <div class="empty">No items yet</div>
            {{end}}
        </div>
    </div>
</body>
</html>`
