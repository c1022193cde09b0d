package models

// MediaKind distinguishes the two attachment families a thread may carry.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Thread is a top-level post. LastUpdated is bumped whenever a reply is
// posted so the homepage can sort by recency.
type Thread struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	LastUpdated int64     `json:"last_updated"` // unix seconds, UTC
	MediaURL    string    `json:"media_url,omitempty"`
	MediaKind   MediaKind `json:"media_kind,omitempty"`
}

// Reply is a text-only follow-up post. Its ID is unique only within the
// parent thread; the composite (parent, id) identifies it globally.
type Reply struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// Media describes a stored attachment as recorded on a thread.
type Media struct {
	URL  string
	Kind MediaKind
}
