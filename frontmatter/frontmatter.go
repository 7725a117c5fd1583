// Package frontmatter reads Markdown pages with a YAML front matter header.
//
//	---
//	title: Hello
//	image:
//	  path: cover.png
//	  twitter: cover-wide.png
//	---
//	Body text.
package frontmatter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/eringen/seotag"
)

const delimiter = "---"

// ErrUnterminated is returned when an opening delimiter has no closing one.
var ErrUnterminated = errors.New("frontmatter: missing closing ---")

// Document is a parsed page.
type Document struct {
	Path string
	Meta seotag.Page
	Body string
}

// Parse splits r into its front matter and body. Input without a leading
// delimiter is all body and has empty metadata.
func Parse(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	if !sc.Scan() || strings.TrimRight(sc.Text(), " \t\r") != delimiter {
		return Document{Meta: seotag.Page{}, Body: string(data)}, nil
	}

	var header strings.Builder
	closed := false
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimRight(line, " \t\r") == delimiter {
			closed = true
			break
		}
		header.WriteString(line)
		header.WriteByte('\n')
	}
	if !closed {
		return Document{}, ErrUnterminated
	}
	var body strings.Builder
	for sc.Scan() {
		body.WriteString(sc.Text())
		body.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return Document{}, err
	}

	meta := seotag.Page{}
	if err := yaml.Unmarshal([]byte(header.String()), &meta); err != nil {
		return Document{}, fmt.Errorf("frontmatter: decode yaml: %w", err)
	}
	if meta == nil {
		meta = seotag.Page{}
	}
	return Document{Meta: meta, Body: strings.TrimLeft(body.String(), "\r\n")}, nil
}

// Load parses the file at path.
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// LoadDir parses every *.md file directly inside dir, sorted by name.
func LoadDir(dir string) ([]Document, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		doc, err := Load(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Post maps the document onto a seotag.Post. The slug falls back to the file
// name, then the title; the image is carried over in whatever shape it has.
func (d Document) Post() seotag.Post {
	title := str(d.Meta["title"])
	slug := str(d.Meta["slug"])
	if slug == "" && d.Path != "" {
		slug = seotag.Slugify(strings.TrimSuffix(filepath.Base(d.Path), filepath.Ext(d.Path)))
	}
	if slug == "" {
		slug = seotag.Slugify(title)
	}
	summary := str(d.Meta["summary"])
	if summary == "" {
		summary = str(d.Meta["description"])
	}
	published := true
	if v, ok := d.Meta["published"].(bool); ok {
		published = v
	}
	return seotag.Post{
		Slug:      slug,
		Title:     title,
		Date:      date(d.Meta["date"]),
		Tags:      tags(d.Meta["tags"]),
		Summary:   summary,
		Content:   d.Body,
		Published: published,
		Link:      "/blog/" + slug + "/",
		Image:     d.Meta["image"],
	}
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func date(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02")
	}
	s := str(v)
	if len(s) > 10 {
		if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return s[:10]
		}
	}
	return s
}

func tags(v any) []string {
	switch t := v.(type) {
	case string:
		return seotag.SplitTags(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, tag := range t {
			if s := str(tag); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return seotag.FilterEmpty(t)
	}
	return nil
}
