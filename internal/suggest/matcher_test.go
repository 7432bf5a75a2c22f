package suggest

import (
	"testing"

	"github.com/dshills/quill/internal/editor"
)

func TestCharMatcher(t *testing.T) {
	tests := []struct {
		name    string
		doc     *editor.Doc
		pos     int
		trigger string
		ok      bool
		want    Match
	}{
		{
			name: "fresh trigger", doc: editor.FromText("hello @"), pos: 7, trigger: "@", ok: true,
			want: Match{From: 6, To: 7, Text: "@", Query: "", IsStart: true},
		},
		{
			name: "query", doc: editor.FromText("hello @bob"), pos: 10, trigger: "@", ok: true,
			want: Match{From: 6, To: 10, Text: "@bob", Query: "bob"},
		},
		{
			name: "last occurrence wins", doc: editor.FromText("a@b@c"), pos: 5, trigger: "@", ok: true,
			want: Match{From: 3, To: 5, Text: "@c", Query: "c"},
		},
		{
			name: "cursor mid text", doc: editor.FromText("@bob tail"), pos: 2, trigger: "@", ok: true,
			want: Match{From: 0, To: 2, Text: "@b", Query: "b"},
		},
		{
			name: "wide runes", doc: editor.FromText("日本 #東京"), pos: 6, trigger: "#", ok: true,
			want: Match{From: 3, To: 6, Text: "#東京", Query: "東京"},
		},
		{
			name: "multi rune trigger", doc: editor.FromText("x ::em"), pos: 6, trigger: "::", ok: true,
			want: Match{From: 2, To: 6, Text: "::em", Query: "em"},
		},
		{name: "space in query", doc: editor.FromText("@bob smith"), pos: 10, trigger: "@"},
		{name: "no trigger", doc: editor.FromText("hello"), pos: 5, trigger: "@"},
		{name: "start of doc", doc: editor.FromText("@"), pos: 0, trigger: "@"},
		{
			name: "atom before cursor", doc: editor.NewDoc(editor.Text("@"), editor.Atom("chip", nil)),
			pos: 2, trigger: "@",
		},
		{
			name: "does not cross breaks", doc: editor.FromText("@a\nb"), pos: 4, trigger: "@",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CharMatcher(tt.trigger)(tt.doc.Resolve(tt.pos))
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v (%+v)", tt.ok, ok, got)
			}
			if ok && got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestNewValidatesConfig(t *testing.T) {
	h := HandlerFuncs{}
	if _, err := New(nil, WithTrigger("@")); err != ErrNilHandler {
		t.Errorf("expected ErrNilHandler, got %v", err)
	}
	if _, err := New(h); err != ErrNoMatcher {
		t.Errorf("expected ErrNoMatcher, got %v", err)
	}
	if _, err := New(h, WithTrigger("@ ")); err != ErrInvalidTrigger {
		t.Errorf("expected ErrInvalidTrigger, got %v", err)
	}
	custom := func(editor.ResolvedPos) (Match, bool) { return Match{}, false }
	if _, err := New(h, WithMatcher(custom)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
