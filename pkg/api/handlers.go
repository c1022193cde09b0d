package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"imageboard/pkg/board"
	"imageboard/pkg/logger"
	"imageboard/pkg/media"
	"imageboard/pkg/models"
	"imageboard/pkg/render"
)

// homepage renders the paginated, recency-sorted thread list.
func (s *Server) homepage(w http.ResponseWriter, r *http.Request) {
	threads, err := board.ListThreads()
	if err != nil {
		s.renderError(w, err)
		return
	}
	pageNum := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageNum = n
		}
	}
	page := board.Paginate(threads, pageNum, s.cfg.Board.PageSize)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Homepage(w, page); err != nil {
		logger.Error("render_homepage_failed", "error", err)
	}
}

// viewThread renders a single thread with its replies.
func (s *Server) viewThread(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	th, ok, err := board.GetThread(id)
	if err != nil {
		s.renderError(w, err)
		return
	}
	if !ok {
		s.renderError(w, board.ErrNotFound)
		return
	}
	replies, err := board.ListReplies(id)
	if err != nil {
		s.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.ThreadPage(w, th, replies); err != nil {
		logger.Error("render_thread_failed", "thread", id, "error", err)
	}
}

// createThread consumes the multipart form part by part so the media file
// streams straight to disk without being buffered in memory.
func (s *Server) createThread(w http.ResponseWriter, r *http.Request) {
	mr, err := r.MultipartReader()
	if err != nil {
		s.renderError(w, &board.ValidationError{Field: "form", Reason: "multipart body required"})
		return
	}

	var title, message string
	var stored *media.Stored
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if stored != nil {
				stored.Discard()
			}
			s.renderError(w, err)
			return
		}
		switch part.FormName() {
		case "title":
			title = readFormValue(part)
		case "message":
			message = readFormValue(part)
		case "media":
			if stored != nil {
				// a second file field is ignored; first one wins
				_ = part.Close()
				continue
			}
			stored, err = s.pipeline.Ingest(part.FileName(), part)
			_ = part.Close()
			if err != nil {
				s.renderError(w, err)
				return
			}
		default:
			_ = part.Close()
		}
	}

	var mediaRec *models.Media
	if stored != nil {
		mediaRec = &stored.Media
	}
	th, err := board.CreateThread(title, message, mediaRec)
	if err != nil {
		// a stored upload must not outlive a rejected request unless the
		// failure was the record write itself
		if stored != nil && board.IsValidation(err) {
			stored.Discard()
		}
		s.renderError(w, err)
		return
	}
	logger.Info("thread_posted", "id", th.ID, "remote", r.RemoteAddr)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// createReply handles the urlencoded reply form.
func (s *Server) createReply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, &board.ValidationError{Field: "form", Reason: "malformed body"})
		return
	}
	parentID, err := strconv.Atoi(r.PostFormValue("parent_id"))
	if err != nil {
		s.renderError(w, &board.ValidationError{Field: "parent_id", Reason: "must be an integer"})
		return
	}
	rp, err := board.CreateReply(parentID, r.PostFormValue("message"))
	if err != nil {
		s.renderError(w, err)
		return
	}
	logger.Info("reply_posted", "thread", parentID, "id", rp.ID, "remote", r.RemoteAddr)
	http.Redirect(w, r, "/thread/"+strconv.Itoa(parentID), http.StatusSeeOther)
}

// apiListThreads returns the recency-sorted thread list as JSON.
func (s *Server) apiListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := board.ListThreads()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	pageNum := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			pageNum = n
		}
	}
	page := board.Paginate(threads, pageNum, s.cfg.Board.PageSize)
	if page.Threads == nil {
		page.Threads = []models.Thread{}
	}
	jsonWrite(w, http.StatusOK, struct {
		Threads    []models.Thread `json:"threads"`
		Page       int             `json:"page"`
		TotalPages int             `json:"total_pages"`
		Total      int             `json:"total"`
	}{page.Threads, page.Number, page.TotalPages, page.Total})
}

// apiListReplies returns a thread's replies as JSON.
func (s *Server) apiListReplies(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if _, ok, err := board.GetThread(id); err != nil {
		jsonError(w, http.StatusInternalServerError, "lookup failed")
		return
	} else if !ok {
		jsonError(w, http.StatusNotFound, "thread not found")
		return
	}
	replies, err := board.ListReplies(id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	if replies == nil {
		replies = []models.Reply{}
	}
	jsonWrite(w, http.StatusOK, struct {
		Thread  int            `json:"thread"`
		Replies []models.Reply `json:"replies"`
	}{id, replies})
}

// renderError maps the error taxonomy onto status codes and writes the
// user-facing error page. Internal failures are logged and kept generic.
func (s *Server) renderError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	title := "Internal Server Error"
	msg := "Something went wrong. Please try again."

	var ve *board.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		title = "Bad Request"
		msg = ve.Error()
	case errors.Is(err, board.ErrNotFound):
		status = http.StatusNotFound
		title = "Thread Not Found"
		msg = "The requested thread does not exist."
	case errors.Is(err, media.ErrUnsupportedMediaType):
		status = http.StatusUnsupportedMediaType
		title = "Unsupported Media Type"
		msg = "Only JPEG, PNG, GIF, WEBP images and MP4 videos are accepted."
	case errors.Is(err, media.ErrInvalidMedia):
		status = http.StatusBadRequest
		title = "Invalid Media"
		msg = "The uploaded file could not be decoded."
	case errors.Is(err, media.ErrMediaTooLarge):
		status = http.StatusRequestEntityTooLarge
		title = "Upload Too Large"
		msg = "The uploaded file exceeds the size limit."
	default:
		logger.Error("request_failed", "error", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = render.ErrorPage(w, title, msg)
}

// readFormValue drains a small text part.
func readFormValue(part io.ReadCloser) string {
	defer part.Close()
	b, _ := io.ReadAll(io.LimitReader(part, 1<<20))
	return string(b)
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func jsonWrite(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
