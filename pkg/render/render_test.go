package render

import (
	"strings"
	"testing"

	"imageboard/pkg/board"
	"imageboard/pkg/models"
)

func TestHomepageEscapesUserText(t *testing.T) {
	page := board.Paginate([]models.Thread{
		{ID: 1, Title: "<script>alert(1)</script>", Message: "safe & sound", LastUpdated: 1},
	}, 1, 10)
	var sb strings.Builder
	if err := Homepage(&sb, page); err != nil {
		t.Fatalf("Homepage: %v", err)
	}
	out := sb.String()
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatal("user title rendered unescaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Fatal("expected escaped title in output")
	}
}

func TestHomepageEmptyBoard(t *testing.T) {
	var sb strings.Builder
	if err := Homepage(&sb, board.Paginate(nil, 1, 10)); err != nil {
		t.Fatalf("Homepage: %v", err)
	}
	if !strings.Contains(sb.String(), "No threads found") {
		t.Fatal("empty board should render the placeholder")
	}
}

func TestHomepagePaginationControls(t *testing.T) {
	threads := make([]models.Thread, 25)
	for i := range threads {
		threads[i] = models.Thread{ID: i + 1, Title: "t", Message: "m", LastUpdated: int64(i)}
	}
	var sb strings.Builder
	if err := Homepage(&sb, board.Paginate(threads, 2, 10)); err != nil {
		t.Fatalf("Homepage: %v", err)
	}
	out := sb.String()
	for _, want := range []string{`href="/?page=1"`, `href="/?page=3"`, `<span class="current">2</span>`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in pagination controls", want)
		}
	}
}

func TestThreadPageMediaKinds(t *testing.T) {
	var sb strings.Builder
	err := ThreadPage(&sb, models.Thread{
		ID: 1, Title: "vid", Message: "m",
		MediaURL: "/uploads/videos/x.mp4", MediaKind: models.MediaVideo,
	}, nil)
	if err != nil {
		t.Fatalf("ThreadPage: %v", err)
	}
	if !strings.Contains(sb.String(), "<video controls") {
		t.Fatal("video attachment should render a video tag")
	}

	sb.Reset()
	err = ThreadPage(&sb, models.Thread{
		ID: 2, Title: "img", Message: "m",
		MediaURL: "/thumbs/images/thumb_y.png", MediaKind: models.MediaImage,
	}, []models.Reply{{ID: 1, Message: "nice"}})
	if err != nil {
		t.Fatalf("ThreadPage: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, `<img src="/thumbs/images/thumb_y.png"`) {
		t.Fatal("image attachment should render an img tag")
	}
	if !strings.Contains(out, "nice") {
		t.Fatal("replies should be rendered")
	}
}

func TestErrorPage(t *testing.T) {
	var sb strings.Builder
	if err := ErrorPage(&sb, "Bad Request", "Title and Message cannot be empty"); err != nil {
		t.Fatalf("ErrorPage: %v", err)
	}
	if !strings.Contains(sb.String(), "Title and Message cannot be empty") {
		t.Fatal("error message missing from page")
	}
}
