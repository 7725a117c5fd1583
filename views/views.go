// Package views provides the default HTML templates for a seotag site.
package views

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/eringen/seotag"
)

//go:embed templates/*.html
var files embed.FS

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

var tmpl = template.Must(template.New("views").Funcs(template.FuncMap{
	"markdown": Markdown,
	"jsonld":   func(s string) template.JS { return template.JS(s) },
	"joinTags": seotag.JoinTags,
	"pathEsc":  seotag.PathEscape,
	"imageSrc": imageSrc,
}).ParseFS(files, "templates/*.html"))

// Markdown renders a post body. Raw HTML in the source is dropped.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// imageSrc renders the admin form's current image as a single path for the input field.
func imageSrc(image any, key string) string {
	switch t := image.(type) {
	case string:
		if key == "path" {
			return t
		}
	case map[string]any:
		s, _ := t[key].(string)
		return s
	}
	return ""
}

type site struct {
	Config seotag.SiteConfig
}

// New returns ViewFuncs rendering the embedded templates for cfg.
func New(cfg seotag.SiteConfig) seotag.ViewFuncs {
	s := site{Config: cfg}
	return seotag.ViewFuncs{
		Home: func(meta seotag.PageMeta, posts []seotag.Post, activeTag string, tags []string) templ.Component {
			return s.render("home.html", map[string]any{
				"Meta": meta, "Posts": posts, "ActiveTag": activeTag, "Tags": tags,
			})
		},
		Post: func(meta seotag.PageMeta, post seotag.Post, related []seotag.Post) templ.Component {
			return s.render("post.html", map[string]any{
				"Meta": meta, "Post": post, "Related": related,
			})
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return s.render("admin_login.html", map[string]any{
				"Meta": s.adminMeta("Sign in"), "ShowError": showError, "CSRF": csrfToken,
			})
		},
		AdminDashboard: func(posts []seotag.Post, message string, csrfToken string) templ.Component {
			return s.render("admin_dashboard.html", map[string]any{
				"Meta": s.adminMeta("Dashboard"), "Posts": posts, "Message": message, "CSRF": csrfToken,
				"Form": map[string]any{"Post": seotag.Post{Published: true}, "CSRF": csrfToken},
			})
		},
		AdminForm: func(post seotag.Post, csrfToken string) templ.Component {
			return s.render("admin_form.html", map[string]any{
				"Post": post, "CSRF": csrfToken,
			})
		},
		AdminImages: func(images []seotag.Image, csrfToken string) templ.Component {
			return s.render("admin_images.html", map[string]any{
				"Meta": s.adminMeta("Images"), "Images": images, "CSRF": csrfToken,
			})
		},
		NotFound: func() templ.Component {
			return s.render("not_found.html", map[string]any{"Meta": s.adminMeta("Not found")})
		},
		ServerError: func() templ.Component {
			return s.render("server_error.html", map[string]any{"Meta": s.adminMeta("Error")})
		},
	}
}

func (s site) adminMeta(title string) seotag.PageMeta {
	return seotag.PageMeta{Title: title + " · " + s.Config.Name}
}

func (s site) render(name string, data map[string]any) templ.Component {
	data["Site"] = s.Config
	return templ.FromGoHTML(tmpl.Lookup(name), data)
}
