package api

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"taxiservice/pkg/forms"
	"taxiservice/pkg/pagination"
)

//go:embed templates
var templateFS embed.FS

const partialsFile = "partials.html"

var templateFuncs = template.FuncMap{
	"pageQuery": func(q url.Values, n int) string {
		return pagination.QueryFor(q, n)
	},
	"fieldErrors": func(errs forms.Errors, field string) []string {
		return errs.Get(field)
	},
	"nonFieldErrors": func(errs forms.Errors) []string {
		return errs.Get(forms.NonFieldErrors)
	},
}

// loadTemplates parses every page under templates/ by its relative path,
// e.g. "taxi/car_list.html", on top of the shared partials.
func loadTemplates() (*template.Template, error) {
	root, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}

	partials, err := fs.ReadFile(root, partialsFile)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(partialsFile).Funcs(templateFuncs).Parse(string(partials))
	if err != nil {
		return nil, err
	}

	err = fs.WalkDir(root, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || name == partialsFile || path.Ext(name) != ".html" {
			return nil
		}
		content, err := fs.ReadFile(root, name)
		if err != nil {
			return err
		}
		_, err = tmpl.New(strings.TrimPrefix(name, "./")).Parse(string(content))
		return err
	})
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}
