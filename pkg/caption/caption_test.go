package caption

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"github.com/tstromberg/brickwall/pkg/photo"
)

type fakeGenerator struct {
	reply    string
	err      error
	model    string
	contents []*genai.Content
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: f.reply}}}}},
	}, nil
}

func testPhoto(t *testing.T) *photo.Photo {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beach.jpg")
	if err := os.WriteFile(path, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return &photo.Photo{Path: path}
}

func TestDescribe(t *testing.T) {
	g := &fakeGenerator{reply: "  \"Waves roll onto Reynisfjara at dusk. The sky is grey.\"\n"}
	got, err := Describe(context.Background(), g, "", testPhoto(t))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if got != "Waves roll onto Reynisfjara at dusk." {
		t.Errorf("Describe = %q", got)
	}
	if g.model != DefaultModel {
		t.Errorf("model = %q, want %q", g.model, DefaultModel)
	}
	parts := g.contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil || string(parts[0].InlineData.Data) != "jpeg bytes" {
		t.Errorf("request parts = %+v", parts)
	}
}

func TestDescribeErrors(t *testing.T) {
	p := testPhoto(t)
	if _, err := Describe(context.Background(), &fakeGenerator{err: errors.New("quota")}, "m", p); err == nil {
		t.Errorf("generator error was swallowed")
	}
	if _, err := Describe(context.Background(), &fakeGenerator{reply: "  "}, "m", p); err == nil {
		t.Errorf("empty reply accepted")
	}
	if _, err := Describe(context.Background(), &fakeGenerator{reply: "x"}, "m", &photo.Photo{Path: "/does/not/exist.jpg"}); err == nil {
		t.Errorf("unreadable photo accepted")
	}
}

func TestCleanDescription(t *testing.T) {
	tests := map[string]string{
		"Caption: a red barn in snow":       "a red barn in snow.",
		"A red barn.\nSnow everywhere.":     "A red barn.",
		"**Fog over the Golden Gate!**":     "Fog over the Golden Gate!",
		"Version 2.5 of the bridge at dawn": "Version 2.5 of the bridge at dawn.",
		"":                                  "",
	}
	for in, want := range tests {
		if got := CleanDescription(in); got != want {
			t.Errorf("CleanDescription(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTags(t *testing.T) {
	g := &fakeGenerator{reply: "Beach, sunset , beach,ice land,iceland,wave,rock,bird"}
	got, err := Tags(context.Background(), g, "m", testPhoto(t))
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	want := []string{"beach", "sunset", "iceland", "wave", "rock"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
}
