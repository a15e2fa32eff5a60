package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leads-manager/pkg/middleware"
)

const loginPageTemplate = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>Leads Manager Login</title>
    <style>
      body { font-family: system-ui, -apple-system, "Segoe UI", sans-serif; background: #0f172a; color: #e2e8f0;
             display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; }
      .card { background: #1e293b; border-radius: 12px; padding: 32px; width: 320px; }
      h1 { font-size: 20px; margin: 0 0 4px; }
      p.sub { color: #94a3b8; font-size: 14px; margin: 0 0 20px; }
      label { display: block; font-size: 13px; font-weight: 600; margin-top: 14px; }
      input { width: 100%; box-sizing: border-box; padding: 8px; margin-top: 4px; border-radius: 6px;
              border: 1px solid #334155; background: #0f172a; color: #e2e8f0; }
      button { width: 100%; margin-top: 20px; padding: 10px; border: 0; border-radius: 6px;
               background: #2563eb; color: white; font-weight: 600; cursor: pointer; }
      #error { color: #f87171; font-size: 13px; margin-top: 12px; min-height: 16px; }
    </style>
  </head>
  <body>
    <form class="card" id="login-form">
      <h1>Leads Manager Login</h1>
      <p class="sub">Enter your credentials to access the dashboard.</p>
      <label for="email">Username</label>
      <input id="email" name="email" type="text" autocomplete="username" required />
      <label for="password">Password</label>
      <input id="password" name="password" type="password" autocomplete="current-password" required />
      <div id="error"></div>
      <button type="submit">Sign In</button>
    </form>
    <script>
      document.getElementById("login-form").addEventListener("submit", async (event) => {
        event.preventDefault();
        const errorBox = document.getElementById("error");
        errorBox.textContent = "";
        try {
          const res = await fetch("/api/auth/login", {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify({
              email: document.getElementById("email").value,
              password: document.getElementById("password").value,
            }),
          });
          if (!res.ok) {
            const data = await res.json().catch(() => ({}));
            throw new Error(data.error || "Login failed");
          }
          window.location.href = "{{.DashboardPath}}";
        } catch (err) {
          errorBox.textContent = err.message;
        }
      });
    </script>
  </body>
</html>`

const dashboardPageTemplate = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>Leads Manager</title>
    <style>
      body { font-family: system-ui, -apple-system, "Segoe UI", sans-serif; background: #0f172a; color: #e2e8f0;
             margin: 0; padding: 24px; }
      h1 { font-size: 22px; }
      .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 12px; }
      .card { background: #1e293b; border-radius: 10px; padding: 16px; }
      .card .label { color: #94a3b8; font-size: 13px; }
      .card .value { font-size: 28px; font-weight: 700; margin-top: 6px; }
      .panel { background: #1e293b; border-radius: 10px; padding: 16px; margin-top: 16px; }
      .chart { display: flex; align-items: flex-end; gap: 4px; height: 140px; }
      .chart .bar { flex: 1; background: #2563eb; border-radius: 3px 3px 0 0; min-height: 2px; }
      .chart-labels { display: flex; gap: 4px; margin-top: 4px; }
      .chart-labels span { flex: 1; font-size: 9px; color: #64748b; text-align: center; }
      table { width: 100%; border-collapse: collapse; margin-top: 8px; }
      th, td { text-align: left; padding: 8px; border-bottom: 1px solid #334155; font-size: 14px; }
      th { color: #94a3b8; font-weight: 600; }
      input, textarea, select { background: #0f172a; color: #e2e8f0; border: 1px solid #334155;
                                border-radius: 6px; padding: 6px; font: inherit; }
      textarea { width: 240px; }
      #search { width: 220px; float: right; }
      a { color: #60a5fa; }
      .muted { color: #64748b; }
    </style>
  </head>
  <body>
    <h1>Leads Dashboard <input id="search" type="search" placeholder="Search leads..." /></h1>
    <div class="cards" id="cards"></div>
    <div class="panel">
      <strong>New Leads (Last 14 Days)</strong>
      <div class="chart" id="chart"></div>
      <div class="chart-labels" id="chart-labels"></div>
    </div>
    <div class="panel">
      <strong>Leads</strong>
      <table>
        <thead>
          <tr><th>Name</th><th>Company</th><th>Status</th><th>Value</th><th>Follow-up</th><th>Notes</th><th>LinkedIn</th></tr>
        </thead>
        <tbody id="rows"></tbody>
      </table>
    </div>
    <script>
      const STATUS_OPTIONS = ["New", "Contacted", "Qualified", "Won", "Lost"];
      let leads = [];

      function esc(s) {
        const div = document.createElement("div");
        div.textContent = s == null ? "" : String(s);
        return div.innerHTML;
      }

      function renderCards(metrics) {
        const items = [
          ["Total Leads", metrics.total],
          ["New (7 days)", metrics.new7d],
          ["Contacted", metrics.contacted],
          ["Won Leads", metrics.won],
        ];
        document.getElementById("cards").innerHTML = items.map(([label, value]) =>
          '<div class="card"><div class="label">' + esc(label) + '</div><div class="value">' + esc(value) + "</div></div>"
        ).join("");
      }

      function renderChart(byDay) {
        const max = Math.max(1, ...byDay.map((d) => d.count));
        document.getElementById("chart").innerHTML = byDay.map((d) =>
          '<div class="bar" title="' + esc(d.day + ": " + d.count) + '" style="height:' + (d.count / max) * 100 + '%"></div>'
        ).join("");
        document.getElementById("chart-labels").innerHTML = byDay.map((d) =>
          "<span>" + esc(d.day.slice(5)) + "</span>"
        ).join("");
      }

      function renderRows() {
        const q = document.getElementById("search").value.trim().toLowerCase();
        const filtered = !q ? leads : leads.filter((l) =>
          [l.name, l.company, l.status, l.owner, l.notes, l.followUpDate, l.email, l.source]
            .filter(Boolean).join(" ").toLowerCase().includes(q)
        );
        document.getElementById("rows").innerHTML = filtered.map((l) =>
          "<tr data-id=\"" + esc(l.id) + "\">" +
          "<td>" + (esc(l.name) || '<span class="muted">&mdash;</span>') + "</td>" +
          "<td>" + esc(l.company) + "</td>" +
          "<td><select data-field=\"status\">" +
            STATUS_OPTIONS.map((o) =>
              '<option' + (o === l.status ? " selected" : "") + ">" + o + "</option>").join("") +
          "</select></td>" +
          "<td>" + (l.value == null ? "" : "$" + l.value.toLocaleString()) + "</td>" +
          "<td><input type=\"date\" data-field=\"followUpDate\" value=\"" + esc(l.followUpDate) + "\" /></td>" +
          "<td><textarea rows=\"2\" data-field=\"notes\">" + esc(l.notes) + "</textarea></td>" +
          "<td>" + (l.linkedinUrl ? '<a href="' + esc(l.linkedinUrl) + '" target="_blank" rel="noopener">profile</a>' : "") + "</td>" +
          "</tr>"
        ).join("") || '<tr><td colspan="7" class="muted">No leads</td></tr>';
      }

      async function refresh() {
        const [leadsRes, summaryRes] = await Promise.all([
          fetch("/api/leads"),
          fetch("/api/leads/summary"),
        ]);
        if (leadsRes.ok) {
          leads = (await leadsRes.json()).leads || [];
          renderRows();
        }
        if (summaryRes.ok) {
          const summary = await summaryRes.json();
          renderCards(summary.metrics);
          renderChart(summary.byDay);
        }
      }

      document.getElementById("rows").addEventListener("change", async (event) => {
        const field = event.target.dataset.field;
        const row = event.target.closest("tr");
        if (!field || !row) return;
        const res = await fetch("/api/leads/" + encodeURIComponent(row.dataset.id), {
          method: "PATCH",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ [field]: event.target.value }),
        });
        if (!res.ok) {
          alert("Failed to update " + field + ". Please try again.");
          refresh();
          return;
        }
        const data = await res.json();
        leads = leads.map((l) => (l.id === data.lead.id ? data.lead : l));
        renderRows();
      });

      document.getElementById("search").addEventListener("input", renderRows);
      refresh();
    </script>
  </body>
</html>`

var (
	loginPage     = template.Must(template.New("login").Parse(loginPageTemplate))
	dashboardPage = template.Must(template.New("dashboard").Parse(dashboardPageTemplate))
)

// RegisterWebRoutes mounts the server-rendered pages.
func (h *Handlers) RegisterWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, middleware.DashboardPath)
	})

	router.GET(middleware.LoginPath, func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := loginPage.Execute(c.Writer, gin.H{"DashboardPath": middleware.DashboardPath}); err != nil {
			h.logger.Error("rendering login page", zap.Error(err))
		}
	})

	router.GET(middleware.DashboardPath, func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := dashboardPage.Execute(c.Writer, nil); err != nil {
			h.logger.Error("rendering dashboard page", zap.Error(err))
		}
	})
}
