package frontmatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/seotag"
)

const sample = `---
title: Hello World
date: 2024-03-09
tags: [go, seo]
description: First post
image:
  path: cover.png
  twitter: cover-wide.png
  alt: A cover
---

Body text.
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "Hello World", doc.Meta["title"])
	assert.Equal(t, "Body text.\n", doc.Body)

	img, ok := doc.Meta["image"].(map[string]any)
	require.True(t, ok, "image should decode as a record, got %T", doc.Meta["image"])
	assert.Equal(t, "cover.png", img["path"])
	assert.Equal(t, "cover-wide.png", img["twitter"])
}

func TestParseWithoutFrontMatter(t *testing.T) {
	doc, err := Parse(strings.NewReader("just text\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Meta)
	assert.Equal(t, "just text\n", doc.Body)
}

func TestParseUnterminated(t *testing.T) {
	_, err := Parse(strings.NewReader("---\ntitle: x\n"))
	assert.ErrorIs(t, err, ErrUnterminated)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse(strings.NewReader("---\ntitle: [unclosed\n---\n"))
	assert.Error(t, err)
}

func TestDocumentPost(t *testing.T) {
	doc, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	doc.Path = "content/hello-world.md"

	post := doc.Post()
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "Hello World", post.Title)
	assert.Equal(t, "2024-03-09", post.Date)
	assert.Equal(t, []string{"go", "seo"}, post.Tags)
	assert.Equal(t, "First post", post.Summary)
	assert.True(t, post.Published)
	assert.Equal(t, "/blog/hello-world/", post.Link)
}

func TestDocumentPostResolvesImage(t *testing.T) {
	doc, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	doc.Path = "hello-world.md"

	cfg := seotag.DefaultConfig()
	cfg.URL = "https://site.example"
	img, rec := seotag.ResolveImage(cfg, doc.Post())
	assert.Equal(t, "https://site.example/blog/hello-world/cover-wide.png", img)
	assert.Equal(t, "A cover", rec["alt"])
}

func TestDocumentPostFallbacks(t *testing.T) {
	doc := Document{Meta: seotag.Page{
		"title":     "Only A Title",
		"tags":      "a, b,,c",
		"published": false,
		"image":     "/static/x.png",
	}}
	post := doc.Post()
	assert.Equal(t, "only-a-title", post.Slug)
	assert.Equal(t, []string{"a", "b", "c"}, post.Tags)
	assert.False(t, post.Published)
	assert.Equal(t, "/static/x.png", post.Image)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("---\ntitle: B\n---\nb\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("---\ntitle: A\n---\na\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "A", docs[0].Meta["title"])
	assert.Equal(t, "B", docs[1].Meta["title"])
	assert.Equal(t, filepath.Join(dir, "a.md"), docs[0].Path)
}
