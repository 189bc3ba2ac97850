package handlers

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/ryandol1/qrserver/internal/qr"
)

const formPage = `<!doctype html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<title>QR Redirect Admin</title>
	<style>
		body { font-family: Arial, sans-serif; margin: 2rem; }
		form { margin-bottom: 2rem; }
		label { display: block; margin-bottom: 0.5rem; }
		input { padding: 0.5rem; width: 24rem; max-width: 100%; margin-bottom: 1rem; }
		button { padding: 0.5rem 1rem; cursor: pointer; }
		.result { border: 1px solid #ccc; padding: 1.5rem; max-width: 30rem; }
		.qr { margin-top: 1rem; }
		.error { color: #b00020; }
	</style>
</head>
<body>
	<h1>Create or Update Redirect</h1>
	<form method="post">
		<label>
			Unique ID:
			<input type="text" name="unique_id" value="{{.UniqueID}}" required />
		</label>
		<label>
			Final URL:
			<input type="url" name="final_url" value="{{.FinalURL}}" required />
		</label>
		<button type="submit">Submit</button>
	</form>

	{{if .Error}}<p class="error">{{.Error}}</p>{{end}}

	{{with .Result}}
	<div class="result">
		<p>Status: <strong>{{.Status}}</strong></p>
		<p>Redirect URL: <a href="{{.RedirectURL}}">{{.RedirectURL}}</a></p>
		<p>Final URL: <a href="{{.FinalURL}}">{{.FinalURL}}</a></p>
		<div class="qr">
			<img src="{{.QRCodeSrc}}" alt="QR Code" />
		</div>
	</div>
	{{end}}

	<p><a href="/admin/entries">View all entries</a></p>
	{{if .UniqueID}}<p><a href="{{.QRLink}}">Direct QR image for {{.UniqueID}}</a></p>{{end}}
</body>
</html>
`

const entriesPage = `<!doctype html>
<html lang="en">
<head>
	<meta charset="utf-8" />
	<title>Redirect Map</title>
	<style>
		body { font-family: Arial, sans-serif; margin: 2rem; }
		table { border-collapse: collapse; width: 100%; max-width: 60rem; }
		th, td { border: 1px solid #ccc; padding: 0.5rem 0.75rem; text-align: left; }
		tr:nth-child(even) { background: #f7f7f7; }
	</style>
</head>
<body>
	<h1>Registered Redirects</h1>
	{{if .}}
	<table>
		<thead>
			<tr>
				<th>Unique ID</th>
				<th>Redirect URL</th>
				<th>Final URL</th>
				<th>QR Code</th>
			</tr>
		</thead>
		<tbody>
		{{range .}}
			<tr>
				<td>{{.UniqueID}}</td>
				<td><a href="{{.RedirectURL}}">{{.RedirectURL}}</a></td>
				<td><a href="{{.FinalURL}}">{{.FinalURL}}</a></td>
				<td><a href="{{.QRLink}}">QR</a></td>
			</tr>
		{{end}}
		</tbody>
	</table>
	{{else}}
		<p>No entries registered yet.</p>
	{{end}}

	<p><a href="/admin/form">Back to form</a></p>
</body>
</html>
`

var (
	formTemplate    = template.Must(template.New("form").Parse(formPage))
	entriesTemplate = template.Must(template.New("entries").Parse(entriesPage))
)

type (
	formResult struct {
		Status      string
		RedirectURL string
		FinalURL    string
		// QRCodeSrc is a data: URI, which html/template would reject in an
		// src attribute unless pre-marked as a trusted URL.
		QRCodeSrc template.URL
	}

	formData struct {
		UniqueID string
		FinalURL string
		QRLink   string
		Result   *formResult
		Error    string
	}

	entryRow struct {
		UniqueID    string
		RedirectURL string
		FinalURL    string
		QRLink      string
	}
)

// AdminForm renders the create-or-update form and, on POST, the outcome of
// the submission. Failures are reported in-page rather than as HTTP errors.
func (h *Handler) AdminForm(w http.ResponseWriter, req *http.Request) {
	data := formData{}

	if req.Method == http.MethodPost {
		data.UniqueID = strings.TrimSpace(req.FormValue("unique_id"))
		data.FinalURL = strings.TrimSpace(req.FormValue("final_url"))
		data.QRLink = qrLink(data.UniqueID)

		entry, created, err := h.store.Upsert(req.Context(), data.UniqueID, data.FinalURL)
		if err != nil {
			data.Error = err.Error()
			h.renderHTML(w, formTemplate, data)
			return
		}

		redirectURL := h.redirectURL(req, entry.Slug)
		qrCode, err := qr.EncodeBase64(redirectURL, h.qrSize)
		if err != nil {
			h.log.Errorw("qr encoding failed", "subject", entry.UniqueID, "error", err)
			data.Error = "qr encoding failed"
			h.renderHTML(w, formTemplate, data)
			return
		}

		data.Result = &formResult{
			Status:      statusLabel(created),
			RedirectURL: redirectURL,
			FinalURL:    entry.FinalURL,
			QRCodeSrc:   template.URL("data:image/png;base64," + qrCode),
		}
	}

	h.renderHTML(w, formTemplate, data)
}

// AdminEntries renders every registered redirect in creation order.
func (h *Handler) AdminEntries(w http.ResponseWriter, req *http.Request) {
	entries, err := h.store.List(req.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows := make([]entryRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entryRow{
			UniqueID:    entry.UniqueID,
			RedirectURL: h.redirectURL(req, entry.Slug),
			FinalURL:    entry.FinalURL,
			QRLink:      qrLink(entry.UniqueID),
		})
	}
	h.renderHTML(w, entriesTemplate, rows)
}

func (h *Handler) renderHTML(w http.ResponseWriter, tmpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		h.log.Errorw("template rendering failed", "template", tmpl.Name(), "error", err)
	}
}

// qrLink builds the image endpoint path for an identifier, which may contain
// characters that need escaping in a path segment.
func qrLink(uniqueID string) string {
	return "/qr/" + url.PathEscape(uniqueID)
}
