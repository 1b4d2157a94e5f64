package readers

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"path"
	"regexp"
	"strings"
)

// EPUBReader extracts text from EPUB documents. An EPUB is a zip archive
// whose reading order is declared in an OPF package file; chapters are read
// in spine order so the extracted text matches the book's order.
type EPUBReader struct{}

// Extensions returns the file extensions this reader handles.
func (r *EPUBReader) Extensions() []string {
	return []string{".epub"}
}

type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Manifest struct {
		Items []struct {
			ID   string `xml:"id,attr"`
			Href string `xml:"href,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

// Read returns the plain text of all chapters in spine order.
func (r *EPUBReader) Read(filePath string) (string, error) {
	archive, err := zip.OpenReader(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open EPUB archive; %w", err)
	}
	defer archive.Close()

	files := make(map[string]*zip.File, len(archive.File))
	for _, f := range archive.File {
		files[f.Name] = f
	}

	opfPath, err := findOPFPath(files)
	if err != nil {
		return "", err
	}

	var pkg epubPackage
	if err := readXML(files, opfPath, &pkg); err != nil {
		return "", fmt.Errorf("failed to parse EPUB package file; %w", err)
	}

	hrefByID := make(map[string]string, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		hrefByID[item.ID] = item.Href
	}

	opfDir := path.Dir(opfPath)
	var text strings.Builder

	for _, ref := range pkg.Spine.ItemRefs {
		href, ok := hrefByID[ref.IDRef]
		if !ok {
			continue
		}

		chapterPath := href
		if opfDir != "." {
			chapterPath = path.Join(opfDir, href)
		}

		f, ok := files[chapterPath]
		if !ok {
			continue
		}

		chapterText, err := extractChapterText(f)
		if err != nil {
			continue
		}
		if chapterText == "" {
			continue
		}

		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(chapterText)
	}

	result := strings.TrimSpace(text.String())
	if result == "" {
		return "", fmt.Errorf("no readable chapters in EPUB: %s", filePath)
	}
	return result, nil
}

func findOPFPath(files map[string]*zip.File) (string, error) {
	var container epubContainer
	if err := readXML(files, "META-INF/container.xml", &container); err != nil {
		return "", fmt.Errorf("failed to read EPUB container; %w", err)
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return "", fmt.Errorf("EPUB container declares no rootfile")
	}
	return container.Rootfiles[0].FullPath, nil
}

func readXML(files map[string]*zip.File, name string, v any) error {
	f, ok := files[name]
	if !ok {
		return fmt.Errorf("missing archive entry %q", name)
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}

	return xml.Unmarshal(data, v)
}

var (
	dropContentRe = regexp.MustCompile(`(?is)<(script|style|head)[^>]*>.*?</(script|style|head)>`)
	blockTagRe    = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|section|article)>|<br\s*/?>`)
	anyTagRe      = regexp.MustCompile(`<[^>]+>`)
	multiBlankRe  = regexp.MustCompile(`\n{3,}`)
)

// extractChapterText strips XHTML markup, keeping block boundaries as line
// breaks.
func extractChapterText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	content := string(data)
	content = dropContentRe.ReplaceAllString(content, "")
	content = blockTagRe.ReplaceAllString(content, "\n\n")
	content = anyTagRe.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")
	content = multiBlankRe.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content), nil
}
