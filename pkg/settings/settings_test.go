package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestSplitJoin(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		c, err := Split("")
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}
		if diff := cmp.Diff(Chunks{}, c); diff != "" {
			t.Errorf("Split(\"\") mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		text := strings.Repeat("é{{format 1 \".2f\"}}", 5000)
		c, err := Split(text)
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}
		if c[1] == "" {
			t.Error("text longer than one chunk should use the second slot")
		}
		for i, s := range c {
			if len(s) > ChunkSize {
				t.Errorf("chunk %d has %d bytes", i, len(s))
			}
			if s != "" && !utf8.RuneStart(s[0]) {
				t.Errorf("chunk %d starts inside a UTF-8 sequence", i)
			}
		}
		if got := c.Join(); got != text {
			t.Error("Join did not restore the original text")
		}
	})

	t.Run("TooLarge", func(t *testing.T) {
		_, err := Split(strings.Repeat("x", NumChunks*ChunkSize+1))
		if !errors.Is(err, ErrTemplateTooLarge) {
			t.Errorf("expected ErrTemplateTooLarge, got %v", err)
		}
		if _, err = Split(strings.Repeat("x", NumChunks*ChunkSize)); err != nil {
			t.Errorf("text filling every chunk should fit, got %v", err)
		}
	})
}

func TestChunksJSON(t *testing.T) {
	var c Chunks
	c[0], c[10] = "a", "b"
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var m map[string]string
	if err = json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal into map failed: %v", err)
	}
	if len(m) != NumChunks || m["chunk0"] != "a" || m["chunk10"] != "b" {
		t.Errorf("unexpected encoding %s", data)
	}

	var back Chunks
	if err = json.Unmarshal([]byte(`{"chunk0":"x","chunk3":"y"}`), &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Join() != "xy" {
		t.Errorf("Join after decode = %q", back.Join())
	}
}

func TestResource(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"logo.png", "logo_png"},
		{"my file-1", "my_file_1"},
		{"héllo", "h_llo"},
		{"a😀b", "a__b"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	png := []byte("\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 2048))
	r := NewResource("logo.png", png)
	if r.Name != "logo_png" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.Size != "2kb" {
		t.Errorf("Size = %q, want 2kb", r.Size)
	}
	if !strings.HasPrefix(r.Value, "data:image/png;base64,") {
		t.Errorf("Value has unexpected prefix: %.40s", r.Value)
	}
}

func TestSettingsResources(t *testing.T) {
	s := Default()
	s.PutResource(Resource{Name: "a", Size: "1kb"})
	s.PutResource(Resource{Name: "b", Size: "1kb"})
	s.PutResource(Resource{Name: "a", Size: "2kb"})
	if len(s.Resources.Images) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(s.Resources.Images))
	}
	if r, ok := s.Resource("a"); !ok || r.Size != "2kb" {
		t.Errorf("Resource(a) = %+v, %v", r, ok)
	}
	if err := s.RemoveResource("a"); err != nil {
		t.Fatalf("RemoveResource failed: %v", err)
	}
	if err := s.RemoveResource("a"); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	fs, err := Open(path)
	if err != nil {
		t.Fatalf("Open on a missing file failed: %v", err)
	}
	if fs.Template() != "" {
		t.Errorf("new store should have an empty template, got %q", fs.Template())
	}
	if _, err = os.Stat(path); !os.IsNotExist(err) {
		t.Error("Open should not create the file")
	}

	if err = fs.SetTemplate("<h1>{{format 1 \".2f\"}}</h1>"); err != nil {
		t.Fatalf("SetTemplate failed: %v", err)
	}
	err = fs.Update(func(s *Settings) error {
		s.View.HideDefaultTemplateMessage = true
		s.PutResource(Resource{Name: "r", Size: "0kb", Value: "data:text/plain;base64,"})
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	failing := errors.New("nope")
	if err = fs.Update(func(s *Settings) error {
		s.View.HideDefaultTemplateMessage = false
		return failing
	}); !errors.Is(err, failing) {
		t.Errorf("Update should return the callback's error, got %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if diff := cmp.Diff(fs.Get(), reopened.Get()); diff != "" {
		t.Errorf("reopened settings mismatch (-want +got):\n%s", diff)
	}
	if !reopened.Get().View.HideDefaultTemplateMessage {
		t.Error("a failed update should not have been applied")
	}
	if got := reopened.Template(); got != "<h1>{{format 1 \".2f\"}}</h1>" {
		t.Errorf("Template() = %q", got)
	}
}
