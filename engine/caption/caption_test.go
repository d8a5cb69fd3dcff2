package caption

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleVTT = `1
00:00:00.000 --> 00:00:02.500 align:start position:0%
  Welcome back to the channel

2
00:00:02.500 --> 00:00:05.000
today we look at
   three things

10
00:00:05.000 --> 00:00:07.000
thanks for watching
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(sampleVTT))
	if err != nil {
		t.Fatal(err)
	}
	want := "Welcome back to the channel today we look at three things thanks for watching"
	if got != want {
		t.Fatalf("Parse = %q\nwant    %q", got, want)
	}
}

func TestParseKeepsTextWithDigits(t *testing.T) {
	got, err := Parse(strings.NewReader("00:01.000 --> 00:02.000\nin 2024 we\n42\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "in 2024 we" {
		t.Fatalf("Parse = %q", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "abc123.en.vtt", sampleVTT)

	r := Load(dir, "abc123")
	if !r.IsOk() {
		t.Fatalf("expected Ok, got %+v", r)
	}
	text, _ := r.Unwrap()
	if !strings.HasPrefix(text, "Welcome back") {
		t.Fatalf("unexpected transcript %q", text)
	}
}

func TestLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "other.en.vtt", sampleVTT)

	r := Load(dir, "abc123")
	if !r.IsNotFound() {
		t.Fatalf("expected NotFound, got ok=%v err=%v", r.IsOk(), r.IsErr())
	}
}

func TestLoadEmptyCaptionIsNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "abc123.en.vtt", "1\n00:00:00.000 --> 00:00:01.000\n\n")

	if r := Load(dir, "abc123"); !r.IsNotFound() {
		t.Fatal("caption without text should be NotFound")
	}
}

func TestFindPrefersExactThenRegional(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "vid.en-US.vtt", "x")
	writeFile(t, dir, "vid.en-GB.vtt", "x")

	path, ok, err := Find(dir, "vid")
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if filepath.Base(path) != "vid.en-GB.vtt" {
		t.Fatalf("expected lexically first regional variant, got %s", path)
	}

	writeFile(t, dir, "vid.en.vtt", "x")
	path, _, _ = Find(dir, "vid")
	if filepath.Base(path) != "vid.en.vtt" {
		t.Fatalf("expected exact match, got %s", path)
	}
}
