package seotag

// Post is the core content type stored in SQLite and rendered by templates.
type Post struct {
	Title     string
	Date      string
	Tags      []string
	Summary   string
	Link      string
	Slug      string
	Content   string
	Published bool
	// Image is the front-matter image exactly as written: a string, a record
	// with path/twitter/facebook/alt keys, or nil.
	Image any
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image + twitter:image, empty when the page has none
	ImageAlt    string
	Twitter     string // twitter:site
	JSONLD      string
}

// Image is an uploaded file under the static uploads directory.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// Path is the site-root-relative path of the uploaded file.
func (img Image) Path() string {
	return "/public/" + uploadsSubdir + "/" + img.Filename
}
