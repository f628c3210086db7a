package handlers

import (
	"html/template"
	"log"
	"net/http"
)

var callbackSuccessTemplate = template.Must(template.New("callback-success").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<p>{{.Title}}. You can close this window.</p>
<script>
  if (window.opener) {
    window.opener.postMessage({ type: {{.MessageType}} }, {{.TargetOrigin}});
  }
  window.close();
</script>
</body>
</html>
`))

var callbackErrorTemplate = template.Must(template.New("callback-error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Connection failed</title></head>
<body>
<h1>Connection failed</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

type callbackSuccessPage struct {
	Title        string
	MessageType  string
	TargetOrigin string
}

type callbackErrorPage struct {
	Message string
}

// writeCallbackSuccess posts "<provider>-auth-success" to the window that opened the popup and closes it
func writeCallbackSuccess(w http.ResponseWriter, provider, providerTitle, targetOrigin string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	err := callbackSuccessTemplate.Execute(w, callbackSuccessPage{
		Title:        providerTitle + " connected",
		MessageType:  provider + "-auth-success",
		TargetOrigin: targetOrigin,
	})
	if err != nil {
		log.Printf("❌ Failed to render callback page: %v", err)
	}
}

// writeCallbackError renders a plain page, no redirect, so a failed callback cannot loop
func writeCallbackError(w http.ResponseWriter, err error) {
	statusCode := statusForError(err)
	message := err.Error()
	if statusCode >= http.StatusInternalServerError {
		statusCode = http.StatusInternalServerError
		message = "Something went wrong while connecting. Please try again."
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := callbackErrorTemplate.Execute(w, callbackErrorPage{Message: message}); err != nil {
		log.Printf("❌ Failed to render callback error page: %v", err)
	}
}
