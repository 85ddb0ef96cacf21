// Package highlight renders paste content into syntax highlighted HTML.
package highlight

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	chroma "github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/pkg/errors"

	"github.com/johnwmail/lpaste/internal/languages"
	"github.com/johnwmail/lpaste/internal/models"
)

// WrapperClass is the class of the element every rendering is wrapped in.
const WrapperClass = "source"

// lexer identifiers chroma registers under another name.
var aliases = map[string]string{
	"html+php": "phtml",
}

// lexers chroma does not ship.
var builtin = map[string]chroma.Lexer{
	"rhtml": chroma.DelegatingLexer(lexers.HTML, erb),
}

// Renderer highlights content for a display language name.
//
// A Renderer is safe for concurrent use.
type Renderer struct {
	style *chroma.Style

	classes *chromahtml.Formatter
	inline  *chromahtml.Formatter

	cssOnce sync.Once
	css     template.CSS
	cssErr  error
}

// New builds a Renderer using the named chroma style. Unknown style names
// fall back to chroma's default style.
func New(styleName string) *Renderer {
	opts := []chromahtml.Option{
		chromahtml.WithLineNumbers(true),
		chromahtml.LineNumbersInTable(true),
	}
	return &Renderer{
		style:   styles.Get(styleName),
		classes: chromahtml.New(append(opts, chromahtml.WithClasses(true))...),
		inline:  chromahtml.New(append(opts, chromahtml.WithClasses(false))...),
	}
}

// StyleName reports the name of the style in use.
func (r *Renderer) StyleName() string {
	return r.style.Name
}

// Render highlights content as the given display language. With inline set,
// colours are emitted as style attributes and the result needs no stylesheet;
// otherwise the page must include CSS.
func (r *Renderer) Render(content, language string, inline bool) (template.HTML, error) {
	id, ok := languages.Resolve(language)
	if !ok {
		return "", errors.Wrapf(models.ErrUnsupportedLanguage, "language %q", language)
	}

	lexer := lexerFor(id)
	if lexer == nil {
		return "", errors.Wrapf(models.ErrUnsupportedLanguage, "no lexer for %q (%s)", language, id)
	}

	it, err := lexer.Tokenise(nil, strings.TrimSpace(content))
	if err != nil {
		return "", errors.Wrapf(err, "tokenise %s", id)
	}

	formatter := r.classes
	if inline {
		formatter = r.inline
	}

	var buf bytes.Buffer
	buf.WriteString(`<div class="` + WrapperClass + `">`)
	if err := formatter.Format(&buf, r.style, it); err != nil {
		return "", errors.Wrap(err, "format")
	}
	buf.WriteString("</div>")

	return template.HTML(buf.String()), nil
}

// CSS returns the stylesheet for renderings made with inline unset.
func (r *Renderer) CSS() (template.CSS, error) {
	r.cssOnce.Do(func() {
		var buf bytes.Buffer
		if err := r.classes.WriteCSS(&buf, r.style); err != nil {
			r.cssErr = errors.Wrap(err, "write css")
			return
		}
		r.css = template.CSS(buf.String())
	})
	return r.css, r.cssErr
}

// lexerFor builds the lexer for a pygments style identifier. An identifier
// of the form "outer+inner" embeds inner in outer.
func lexerFor(id string) chroma.Lexer {
	if l, ok := builtin[id]; ok {
		return chroma.Coalesce(l)
	}
	if alias, ok := aliases[id]; ok {
		id = alias
	}

	outer, inner, embedded := strings.Cut(id, "+")
	if !embedded {
		if l := lexers.Get(id); l != nil {
			return chroma.Coalesce(l)
		}
		return nil
	}

	root, lang := lexers.Get(outer), lexers.Get(inner)
	if root == nil || lang == nil {
		return nil
	}
	return chroma.Coalesce(chroma.DelegatingLexer(root, lang))
}
