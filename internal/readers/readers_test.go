package readers

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"book.pdf", "*readers.PDFReader", false},
		{"Book.PDF", "*readers.PDFReader", false},
		{"book.epub", "*readers.EPUBReader", false},
		{"notes.txt", "*readers.PlainTextReader", false},
		{"notes.md", "*readers.PlainTextReader", false},
		{"book.mobi", "", true},
		{"image.png", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			reader, err := ForPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("error %v does not wrap ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForPath returned error; %v", err)
			}
			// Spot-check the concrete type through its extension list.
			got := false
			for _, ext := range reader.Extensions() {
				if strings.HasSuffix(strings.ToLower(tt.path), ext) {
					got = true
				}
			}
			if !got {
				t.Errorf("reader for %q does not claim its extension", tt.path)
			}
		})
	}
}

func TestMOBIRejectedWithGuidance(t *testing.T) {
	_, err := ForPath("book.mobi")
	if err == nil {
		t.Fatal("expected error for MOBI")
	}
	if !strings.Contains(err.Error(), "EPUB") {
		t.Errorf("MOBI rejection should suggest conversion, got %v", err)
	}
}

func TestIsDocument(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.pdf", true},
		{"a.epub", true},
		{"a.txt", true},
		{"a.mobi", false},
		{"a.wav", false},
	}

	for _, tt := range tests {
		if got := IsDocument(tt.path); got != tt.want {
			t.Errorf("IsDocument(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPlainTextRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	content := "# Title\n\nBody text.\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file; %v", err)
	}

	got, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument returned error; %v", err)
	}
	if got != content {
		t.Errorf("content = %q, want unchanged input", got)
	}
}

func TestPDFReadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		r := &PDFReader{}
		if _, err := r.Read(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.pdf")
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatalf("failed to write test file; %v", err)
		}
		r := &PDFReader{}
		if _, err := r.Read(path); err == nil {
			t.Error("expected error for empty file")
		}
	})

	t.Run("not a pdf", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fake.pdf")
		if err := os.WriteFile(path, []byte("just text"), 0644); err != nil {
			t.Fatalf("failed to write test file; %v", err)
		}
		r := &PDFReader{}
		if _, err := r.Read(path); err == nil {
			t.Error("expected error for non-PDF content")
		}
	})
}

// writeEPUB builds a minimal valid EPUB with the given chapters in spine
// order.
func writeEPUB(t *testing.T, path string, chapters map[string]string, spine []string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create EPUB; %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)

	add := func(name, content string) {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s; %v", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s; %v", name, err)
		}
	}

	add("META-INF/container.xml", `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`)

	var manifest, spineRefs strings.Builder
	for _, id := range spine {
		manifest.WriteString(`<item id="` + id + `" href="` + id + `.xhtml" media-type="application/xhtml+xml"/>`)
		spineRefs.WriteString(`<itemref idref="` + id + `"/>`)
	}
	add("OEBPS/content.opf", `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <manifest>`+manifest.String()+`</manifest>
  <spine>`+spineRefs.String()+`</spine>
</package>`)

	for id, body := range chapters {
		add("OEBPS/"+id+".xhtml", body)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("failed to finalize EPUB; %v", err)
	}
}

func TestEPUBReadSpineOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.epub")
	writeEPUB(t, path,
		map[string]string{
			"ch2": `<html><body><p>Second chapter.</p></body></html>`,
			"ch1": `<html><head><title>x</title></head><body><h1>First</h1><p>First chapter.</p></body></html>`,
		},
		[]string{"ch1", "ch2"})

	got, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument returned error; %v", err)
	}

	first := strings.Index(got, "First chapter.")
	second := strings.Index(got, "Second chapter.")
	if first < 0 || second < 0 {
		t.Fatalf("extracted text missing chapters: %q", got)
	}
	if first > second {
		t.Error("chapters not in spine order")
	}
	if strings.Contains(got, "<") {
		t.Errorf("markup not stripped: %q", got)
	}
	if strings.Contains(got, "title") {
		t.Errorf("head content not dropped: %q", got)
	}
}

func TestEPUBEntitiesDecoded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.epub")
	writeEPUB(t, path,
		map[string]string{
			"ch1": `<html><body><p>Fish &amp; Chips &lt;tasty&gt;</p></body></html>`,
		},
		[]string{"ch1"})

	got, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument returned error; %v", err)
	}
	if !strings.Contains(got, "Fish & Chips <tasty>") {
		t.Errorf("entities not decoded: %q", got)
	}
}

func TestEPUBMissingContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file; %v", err)
	}
	w := zip.NewWriter(f)
	entry, _ := w.Create("mimetype")
	entry.Write([]byte("application/epub+zip"))
	w.Close()
	f.Close()

	if _, err := ReadDocument(path); err == nil {
		t.Error("expected error for EPUB without container.xml")
	}
}
