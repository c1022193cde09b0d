// Package render produces the server-side HTML pages. Templates escape all
// user text, so titles and messages are XSS-safe by construction.
package render

import (
	"html/template"
	"io"

	"imageboard/pkg/board"
	"imageboard/pkg/models"
)

var homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Simple Imageboard</title>
    <link rel="stylesheet" href="/static/style.css">
    <script defer src="/static/script.js"></script>
</head>
<body>
    <div class="logo">Simple Imageboard</div>
    <hr>

    <div id="post-form-container">
        <form class="postform" action="/thread" method="post" enctype="multipart/form-data">
            <input type="text" id="title" name="title" maxlength="75" placeholder="Title" required aria-label="Title">
            <textarea id="message" name="message" rows="4" maxlength="8000" placeholder="Message" required aria-label="Message"></textarea>
            <label for="media">Upload Media (JPEG, PNG, GIF, WEBP, MP4 - optional):</label>
            <input type="file" id="media" name="media" accept=".jpg,.jpeg,.png,.gif,.webp,.mp4">
            <input type="submit" value="Create Thread">
        </form>
    </div>
    <hr>

    <div class="postlists">
{{- if not .Page.Threads }}
        <p>No threads found. Be the first to create one!</p>
{{- end }}
{{- range $i, $t := .Page.Threads }}
{{- if $i }}<hr>{{ end }}
        {{ template "thread" $t }}
{{- end }}
    </div>

    <div class="pagination">
{{- if gt .Page.Number 1 }}
        <a href="/?page={{ .PrevPage }}">Previous</a>
{{- end }}
{{- range .PageNumbers }}
{{- if eq . $.Page.Number }}
        <span class="current">{{ . }}</span>
{{- else }}
        <a href="/?page={{ . }}">{{ . }}</a>
{{- end }}
{{- end }}
{{- if lt .Page.Number .Page.TotalPages }}
        <a href="/?page={{ .NextPage }}">Next</a>
{{- end }}
    </div>

    <div class="footer">
        - Powered by Go and Pebble -
    </div>
</body>
</html>
{{ define "thread" }}
<div class="post thread-post">
{{- if .MediaURL }}
    <div class="post-media">
{{- if eq .MediaKind "video" }}
        <video controls class="video-player">
            <source src="{{ .MediaURL }}" type="video/mp4">
            Your browser does not support the video tag.
        </video>
{{- else }}
        <img src="{{ .MediaURL }}" alt="Thread Image" class="toggle-image">
{{- end }}
    </div>
{{- end }}
    <div class="post-content">
        <div class="post-header">
            <span class="title">{{ .Title }}</span>
            <a href="/thread/{{ .ID }}" class="reply-link">Reply</a>
        </div>
        <div class="message">{{ .Message }}</div>
    </div>
</div>
{{ end }}`))

var threadTmpl = template.Must(template.New("thread_page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Thread - {{ .Thread.Title }}</title>
    <link rel="stylesheet" href="/static/style.css">
    <script defer src="/static/script.js"></script>
</head>
<body>
    <div class="replymode">
        <strong>Reply Mode</strong> | <a href="/">Back to Main Board</a>
    </div>
    <br>

    <div class="postarea-container">
        <form class="postform" action="/reply" method="post">
            <input type="hidden" name="parent_id" value="{{ .Thread.ID }}">
            <textarea id="message" name="message" rows="4" maxlength="8000" placeholder="Message" required aria-label="Message"></textarea>
            <input type="submit" value="Reply">
        </form>
    </div>
    <br>

    <div class="post thread-post">
{{- if .Thread.MediaURL }}
    <div class="post-media">
{{- if eq .Thread.MediaKind "video" }}
        <video controls class="video-player">
            <source src="{{ .Thread.MediaURL }}" type="video/mp4">
            Your browser does not support the video tag.
        </video>
{{- else }}
        <img src="{{ .Thread.MediaURL }}" alt="Thread Image" class="toggle-image">
{{- end }}
    </div>
{{- end }}
        <div class="post-content">
            <div class="post-header">
                <span class="title">{{ .Thread.Title }}</span>
            </div>
            <div class="message">{{ .Thread.Message }}</div>
        </div>
    </div>
    <hr>

    <div class="postlists">
{{- if not .Replies }}
        <p>No replies yet. Be the first to reply!</p>
{{- end }}
{{- range $i, $r := .Replies }}
{{- if $i }}<hr>{{ end }}
        <div class="post reply-post">
            <div class="post-content">
                <div class="post-header">
                    <span class="title">Reply {{ $r.ID }}</span>
                </div>
                <div class="message">{{ $r.Message }}</div>
            </div>
        </div>
{{- end }}
    </div>

    <div class="footer">
        - Powered by Go and Pebble -
    </div>
</body>
</html>`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Error - {{ .Title }}</title>
    <link rel="stylesheet" href="/static/style.css">
</head>
<body>
    <div class="error-container">
        <h1>{{ .Title }}</h1>
        <p>{{ .Message }}</p>
        <a href="/">Back to Home</a>
    </div>
</body>
</html>`))

type homeData struct {
	Page        board.Page
	PrevPage    int
	NextPage    int
	PageNumbers []int
}

// Homepage writes the paginated thread list page.
func Homepage(w io.Writer, page board.Page) error {
	nums := make([]int, 0, page.TotalPages)
	for i := 1; i <= page.TotalPages; i++ {
		nums = append(nums, i)
	}
	return homeTmpl.Execute(w, homeData{
		Page:        page,
		PrevPage:    page.Number - 1,
		NextPage:    page.Number + 1,
		PageNumbers: nums,
	})
}

// ThreadPage writes a single thread with its replies and the reply form.
func ThreadPage(w io.Writer, th models.Thread, replies []models.Reply) error {
	return threadTmpl.Execute(w, struct {
		Thread  models.Thread
		Replies []models.Reply
	}{Thread: th, Replies: replies})
}

// ErrorPage writes a user-facing error page.
func ErrorPage(w io.Writer, title, message string) error {
	return errorTmpl.Execute(w, struct {
		Title   string
		Message string
	}{Title: title, Message: message})
}
