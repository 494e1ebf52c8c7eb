package monitor

import (
	"os"

	"github.com/gin-gonic/gin"
)

func logsToken() string {
	if token := os.Getenv("MONITOR_TOKEN"); token != "" {
		return token
	}
	return "secret-token"
}

// RegisterMonitorPage serves a small self-contained status page that polls
// the health endpoint and tails the server log.
func RegisterMonitorPage(router *gin.Engine) {
	router.GET("/monitor", func(c *gin.Context) {
		c.Data(200, "text/html; charset=utf-8", []byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>Portal Monitor</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }

    body {
      background: linear-gradient(135deg, #0f172a 0%, #1e293b 100%);
      color: #e2e8f0;
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      min-height: 100vh;
      padding: 20px;
    }

    .container { max-width: 1100px; margin: 0 auto; }

    h1 {
      font-size: 2rem;
      font-weight: 700;
      color: #93c5fd;
      margin-bottom: 1.5rem;
    }

    .status-card {
      background: rgba(255, 255, 255, 0.05);
      border: 1px solid rgba(255, 255, 255, 0.1);
      border-radius: 12px;
      padding: 1.25rem;
      margin-bottom: 1.5rem;
    }

    #status { font-size: 1.1rem; font-weight: 600; }

    .logs-container {
      background: rgba(255, 255, 255, 0.03);
      border: 1px solid rgba(255, 255, 255, 0.1);
      border-radius: 12px;
      padding: 1.25rem;
    }

    .logs-header {
      display: flex;
      justify-content: space-between;
      align-items: center;
      margin-bottom: 1rem;
    }

    #logs {
      background: rgba(0, 0, 0, 0.35);
      padding: 1rem;
      border-radius: 8px;
      max-height: 480px;
      overflow-y: auto;
      white-space: pre-wrap;
      font-family: 'Monaco', 'Consolas', monospace;
      font-size: 0.85rem;
      line-height: 1.5;
      color: #cbd5e1;
    }

    button {
      padding: 0.5rem 1rem;
      background: #2563eb;
      color: #fff;
      border: none;
      border-radius: 8px;
      cursor: pointer;
      font-weight: 600;
    }

    button.paused { background: #dc2626; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Citizen Portal Monitor</h1>

    <div class="status-card">
      <div id="status">Status: Checking...</div>
    </div>

    <div class="logs-container">
      <div class="logs-header">
        <div>Server Logs</div>
        <button onclick="toggleLive()" id="toggleBtn">Pause Live Logs</button>
      </div>
      <pre id="logs">Loading logs...</pre>
    </div>
  </div>

  <script>
    let liveLogs = true;
    const logsElement = document.getElementById('logs');
    const statusElement = document.getElementById('status');
    const toggleBtn = document.getElementById('toggleBtn');
    const token = new URLSearchParams(window.location.search).get('token') || '';

    function fetchStatus() {
      fetch('/api/v1/health')
        .then(res => res.json())
        .then(data => {
          statusElement.textContent = 'Status: ' + (data.status === 'ok' ? 'Online' : 'Offline');
        })
        .catch(() => {
          statusElement.textContent = 'Status: Offline';
        });
    }

    function fetchLogs() {
      if (!liveLogs) return;
      fetch('/logs?token=' + encodeURIComponent(token))
        .then(res => res.text())
        .then(data => {
          logsElement.textContent = data;
          logsElement.scrollTop = logsElement.scrollHeight;
        });
    }

    function toggleLive() {
      liveLogs = !liveLogs;
      toggleBtn.textContent = liveLogs ? 'Pause Live Logs' : 'Resume Live Logs';
      toggleBtn.classList.toggle('paused', !liveLogs);
    }

    fetchStatus();
    fetchLogs();
    setInterval(fetchStatus, 5000);
    setInterval(fetchLogs, 5000);
  </script>
</body>
</html>`))
	})
}

// RegisterLogsRoute exposes the raw server log behind a query token.
func RegisterLogsRoute(router *gin.Engine) {
	router.GET("/logs", func(c *gin.Context) {
		if c.Query("token") != logsToken() {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			return
		}
		logData, err := os.ReadFile("logs/portal-api.log")
		if err != nil {
			c.JSON(500, gin.H{"error": "Unable to read log"})
			return
		}
		c.Data(200, "text/plain; charset=utf-8", logData)
	})
}
