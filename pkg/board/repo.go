package board

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"imageboard/pkg/logger"
	"imageboard/pkg/models"
	"imageboard/pkg/store"
)

const (
	maxTitleLen   = 75
	maxMessageLen = 8000
)

// NextThreadID derives the next thread id by counting existing thread
// records. Not atomic: two concurrent creators can observe the same count
// and collide on a key; acceptable at the write rates this board targets.
func NextThreadID() (int, error) {
	n, err := store.CountPrefix(ThreadScanPrefix())
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// NextReplyID derives the next reply id within a thread by counting that
// thread's replies. Same best-effort semantics as NextThreadID.
func NextReplyID(parentID int) (int, error) {
	n, err := store.CountPrefix(ReplyPrefix(parentID))
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

// CreateThread validates, allocates an id, and persists a new thread. The
// media argument may be nil for text-only threads.
func CreateThread(title, message string, media *models.Media) (models.Thread, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" {
		return models.Thread{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if message == "" {
		return models.Thread{}, &ValidationError{Field: "message", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return models.Thread{}, &ValidationError{Field: "title", Reason: "too long"}
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return models.Thread{}, &ValidationError{Field: "message", Reason: "too long"}
	}

	id, err := NextThreadID()
	if err != nil {
		return models.Thread{}, err
	}
	th := models.Thread{
		ID:          id,
		Title:       title,
		Message:     message,
		LastUpdated: time.Now().UTC().Unix(),
	}
	if media != nil {
		th.MediaURL = media.URL
		th.MediaKind = media.Kind
	}
	b, err := json.Marshal(th)
	if err != nil {
		return models.Thread{}, err
	}
	if err := store.Put(ThreadKey(id), b); err != nil {
		return models.Thread{}, err
	}
	logger.Info("thread_created", "id", id, "media", th.MediaURL != "")
	return th, nil
}

// GetThread looks up a single thread. The second return is false when no
// record exists under the id.
func GetThread(id int) (models.Thread, bool, error) {
	v, ok, err := store.Get(ThreadKey(id))
	if err != nil || !ok {
		return models.Thread{}, false, err
	}
	var th models.Thread
	if err := json.Unmarshal(v, &th); err != nil {
		return models.Thread{}, false, err
	}
	return th, true, nil
}

// ListThreads returns every stored thread in store key order. Callers that
// need recency order run the result through Paginate.
func ListThreads() ([]models.Thread, error) {
	var out []models.Thread
	err := store.ScanPrefix(ThreadScanPrefix(), func(_, v []byte) error {
		var th models.Thread
		if err := json.Unmarshal(v, &th); err != nil {
			// skip undecodable records rather than failing the listing
			logger.Warn("thread_record_undecodable", "error", err)
			return nil
		}
		out = append(out, th)
		return nil
	})
	return out, err
}

// CreateReply validates and persists a reply under parentID, then touches
// the parent's last_updated. The reply write and the touch are two
// independent puts; a crash between them leaves the reply stored with a
// stale parent sort position, which only affects homepage ordering.
func CreateReply(parentID int, message string) (models.Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.Reply{}, &ValidationError{Field: "message", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return models.Reply{}, &ValidationError{Field: "message", Reason: "too long"}
	}

	parent, ok, err := GetThread(parentID)
	if err != nil {
		return models.Reply{}, err
	}
	if !ok {
		return models.Reply{}, ErrNotFound
	}

	id, err := NextReplyID(parentID)
	if err != nil {
		return models.Reply{}, err
	}
	rp := models.Reply{ID: id, Message: message}
	b, err := json.Marshal(rp)
	if err != nil {
		return models.Reply{}, err
	}
	if err := store.Put(ReplyKey(parentID, id), b); err != nil {
		return models.Reply{}, err
	}

	// Touch: re-read so a concurrent reply's newer record is not clobbered
	// with stale fields; last writer wins on the timestamp itself.
	if cur, ok, err := GetThread(parentID); err == nil && ok {
		parent = cur
	}
	parent.LastUpdated = time.Now().UTC().Unix()
	if nb, err := json.Marshal(parent); err == nil {
		if err := store.Put(ThreadKey(parentID), nb); err != nil {
			logger.Error("thread_touch_failed", "thread", parentID, "error", err)
		}
	}
	logger.Info("reply_created", "thread", parentID, "id", id)
	return rp, nil
}

// ListReplies returns the replies of parentID in store key order.
func ListReplies(parentID int) ([]models.Reply, error) {
	var out []models.Reply
	err := store.ScanPrefix(ReplyPrefix(parentID), func(_, v []byte) error {
		var rp models.Reply
		if err := json.Unmarshal(v, &rp); err != nil {
			logger.Warn("reply_record_undecodable", "thread", parentID, "error", err)
			return nil
		}
		out = append(out, rp)
		return nil
	})
	return out, err
}
