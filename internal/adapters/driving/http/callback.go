package http

import (
	"html/template"
	"net/http"

	"github.com/keepsake-labs/driveauth-core/internal/core/ports/driving"
)

// callbackPage is the terminal page shown in the popup window. It
// displays the outcome and closes itself after the delay the callback
// service decided on. The page always schedules the close, so a
// stranded popup cannot outlive its delay.
var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Google Drive Authorization</title>
<style>
body { font-family: system-ui, sans-serif; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0; }
.card { text-align: center; max-width: 28rem; padding: 2rem; }
.ok { color: #188038; }
.err { color: #d93025; }
</style>
</head>
<body>
<div class="card">
{{if .Success}}
<h2 class="ok">Authorization complete</h2>
<p>You can close this window.</p>
{{else}}
<h2 class="err">Authorization failed</h2>
<p>{{.Detail}}</p>
{{end}}
</div>
<script>
setTimeout(function() { window.close(); }, {{.CloseDelayMS}});
</script>
</body>
</html>
`))

type callbackPageData struct {
	Success      bool
	Detail       string
	CloseDelayMS int64
}

// handleCallback receives the redirect from Google's consent screen,
// runs the exchange-and-relay handshake, and renders the terminal
// page.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result := s.callbackService.HandleCallback(r.Context(), driving.CallbackRequest{
		Code:  q.Get("code"),
		Error: q.Get("error"),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = callbackPage.Execute(w, callbackPageData{
		Success:      result.Outcome == driving.OutcomeSuccess,
		Detail:       result.Detail,
		CloseDelayMS: result.CloseDelay.Milliseconds(),
	})
}
