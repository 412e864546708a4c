package oklchpicker

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	"github.com/jsvensson/oklchpicker/internal/color"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("oklchpick.engine")

// Engine loads and executes Go templates against a resolved Palette.
type Engine struct {
	TemplatesDir string
	OutputDir    string
	Apps         []string // if non-empty, only render these template basenames
}

// Run loads all .tmpl files from the templates directory, executes them
// with the given palette, and writes output files.
func (e *Engine) Run(palette *Palette) error {
	pattern := filepath.Join(e.TemplatesDir, "*.tmpl")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("globbing templates: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no .tmpl files found in %s", e.TemplatesDir)
	}

	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data := buildTemplateData(palette)

	for _, tmplPath := range matches {
		baseName := strings.TrimSuffix(filepath.Base(tmplPath), ".tmpl")

		if !e.shouldRender(baseName) {
			log.Debugf("skipping %s", baseName)
			continue
		}

		if err := e.renderTemplate(tmplPath, baseName, data); err != nil {
			return err
		}
		log.Infof("rendered %s", baseName)
	}

	return nil
}

func (e *Engine) shouldRender(name string) bool {
	// If no apps are specified, render all.
	if len(e.Apps) == 0 {
		return true
	}

	return slices.Contains(e.Apps, name)
}

func (e *Engine) renderTemplate(tmplPath, outputName string, data templateData) error {
	tmpl, err := template.New(filepath.Base(tmplPath)).Funcs(data.FuncMap).ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", tmplPath, err)
	}

	outPath := filepath.Join(e.OutputDir, outputName)
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", outPath, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("executing template %s: %w", tmplPath, err)
	}

	return nil
}

// templateData is the data passed to templates.
type templateData struct {
	Palette  *Palette
	Swatches map[string]color.Oklch
	Current  color.Oklch
	FuncMap  template.FuncMap
}

// resolveColor turns a template argument into a color. It accepts a color
// value, a Swatch, a swatch name, a "swatch.<name>" path, "current", or a CSS
// color string.
func resolveColor(v any, data templateData) (color.Oklch, error) {
	switch c := v.(type) {
	case color.Oklch:
		return c, nil
	case Swatch:
		return c.Color, nil
	case color.Color:
		return c.Oklch(), nil
	case string:
		return resolveColorPath(c, data)
	default:
		return color.Oklch{}, fmt.Errorf("cannot use %T as a color", v)
	}
}

// resolveColorPath resolves a swatch name, "swatch.<name>", "current" or a
// CSS color string. Names win over CSS colors, so a swatch called "red"
// shadows the named color.
func resolveColorPath(path string, data templateData) (color.Oklch, error) {
	if path == "current" {
		return data.Current, nil
	}
	name := strings.TrimPrefix(path, "swatch.")
	if o, ok := data.Swatches[name]; ok {
		return o, nil
	}
	if name != path {
		return color.Oklch{}, fmt.Errorf("swatch not found: %s", name)
	}
	o, err := color.Parse(path)
	if err != nil {
		return color.Oklch{}, fmt.Errorf("%q is neither a swatch nor a color: %w", path, err)
	}
	return o, nil
}

// formatFunc builds a template function writing its argument in notation n.
func formatFunc(n color.Notation, data *templateData) func(any) (string, error) {
	return func(v any) (string, error) {
		o, err := resolveColor(v, *data)
		if err != nil {
			return "", err
		}
		return o.Format(n), nil
	}
}

func buildTemplateData(palette *Palette) templateData {
	data := templateData{
		Palette:  palette,
		Swatches: make(map[string]color.Oklch, len(palette.Swatches)),
		Current:  palette.Current,
	}
	for _, s := range palette.Swatches {
		data.Swatches[s.Name] = s.Color
	}

	r := palette.Resolver()
	data.FuncMap = template.FuncMap{
		"hex":   formatFunc(color.NotationHex, &data),
		"rgb":   formatFunc(color.NotationRGB, &data),
		"hsl":   formatFunc(color.NotationHSL, &data),
		"oklch": formatFunc(color.NotationOklch, &data),
		"oklab": formatFunc(color.NotationOklab, &data),
		"lch":   formatFunc(color.NotationLCH, &data),
		"lab":   formatFunc(color.NotationLab, &data),
		"hexBare": func(v any) (string, error) {
			o, err := resolveColor(v, data)
			if err != nil {
				return "", err
			}
			return o.RGB().HexBare(), nil
		},
		"swatch": func(name string) (color.Oklch, error) {
			o, ok := data.Swatches[name]
			if !ok {
				return color.Oklch{}, fmt.Errorf("swatch not found: %s", name)
			}
			return o, nil
		},
		"ratio": func(v any) (float64, error) {
			o, err := resolveColor(v, data)
			if err != nil {
				return 0, err
			}
			return r.ChromaRatio(o), nil
		},
		"brighten": func(amount float64, v any) (color.Oklch, error) {
			o, err := resolveColor(v, data)
			if err != nil {
				return color.Oklch{}, err
			}
			return r.Brighten(o, amount), nil
		},
		"darken": func(amount float64, v any) (color.Oklch, error) {
			o, err := resolveColor(v, data)
			if err != nil {
				return color.Oklch{}, err
			}
			return r.Darken(o, amount), nil
		},
	}
	return data
}
