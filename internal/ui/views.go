package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"github.com/ataredge/tutorhub/internal/config"
	"github.com/ataredge/tutorhub/internal/ctxkeys"
	"github.com/ataredge/tutorhub/internal/model"
)

//go:embed templates
var templateFS embed.FS

var funcs = template.FuncMap{
	"cx":          twmerge.Merge,
	"str":         model.Str,
	"price":       price,
	"date":        func(t time.Time) string { return t.Local().Format("2 Jan 2006, 15:04") },
	"initials":    initials,
	"safe":        func(s string) template.HTML { return template.HTML(s) },
	"statusClass": statusClass,
	"navlink":     navlink,
	"avatar":      avatar,
	"dict":        dict,
}

var pages = mustParsePages()

// mustParsePages parses every page under templates/pages into its own set
// together with the layout and partials, so each page can define "content".
func mustParsePages() map[string]*template.Template {
	base := template.Must(template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html"))

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		panic(err)
	}

	parsed := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		parsed[name] = template.Must(template.Must(base.Clone()).ParseFS(templateFS, file))
	}
	return parsed
}

// View is what every page template receives.
type View struct {
	Title       string
	Description string
	Session     *model.Session
	Config      *config.Config
	CSRFToken   string
	Nonce       string
	Path        string
	Data        any
}

// Page renders the named page inside the site layout.
func Page(name, title string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}

		view := View{
			Title:     title,
			Session:   ctxkeys.Session(ctx),
			Config:    ctxkeys.Config(ctx),
			CSRFToken: ctxkeys.CSRFToken(ctx),
			Nonce:     templ.GetNonce(ctx),
			Path:      ctxkeys.URLPath(ctx),
			Data:      data,
		}
		if view.Config == nil {
			view.Config = &config.Config{AppName: "ATAR Edge Academy"}
		}
		if p, ok := data.(*model.Page); ok {
			view.Description = p.Description
		}

		return t.ExecuteTemplate(w, "layout", view)
	})
}

const (
	navLinkClass       = "px-3 py-2 rounded-md text-sm text-slate-600 hover:text-slate-900"
	navLinkActiveClass = "bg-slate-200 text-slate-900 font-medium"
)

type navLink struct {
	Href  string
	Label string
	Class string
}

func navlink(current, href, label string) navLink {
	class := navLinkClass
	if current == href || strings.HasPrefix(current, href+"/") {
		class = twmerge.Merge(navLinkClass, navLinkActiveClass)
	}
	return navLink{Href: href, Label: label, Class: class}
}

type avatarProps struct {
	PhotoURL string
	Name     string
	Size     string
}

func avatar(tutor *model.Tutor, size string) avatarProps {
	return avatarProps{PhotoURL: tutor.PhotoURL, Name: tutor.Name, Size: size}
}

// dict builds a map from key/value pairs for passing several values to a partial.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func statusClass(s model.Status) string {
	switch s {
	case model.StatusOpen:
		return "bg-amber-100 text-amber-800"
	case model.StatusClosed:
		return "bg-emerald-100 text-emerald-800"
	}
	return "bg-sky-100 text-sky-800"
}

func price(p *int) string {
	if p == nil || *p <= 0 {
		return ""
	}
	return fmt.Sprintf("$%d/hr", *p)
}

func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(word))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

type TutorsData struct {
	Tutors []*model.Tutor
	Filter string
}

type TutorData struct {
	Tutor   *model.Tutor
	Success bool
	Error   string
}

// FormData backs the public forms.
type FormData struct {
	Success bool
	Error   string
}

type AdminData struct {
	Counts *model.OpenCounts
}

type AdminListData[T any] struct {
	Kind      model.Kind
	Partition *model.Partition[T]
}
