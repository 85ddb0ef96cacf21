// Package languages maps the language names offered to users onto the lexer
// identifiers understood by the highlighter.
package languages

// Language pairs a display name with its lexer identifier.
type Language struct {
	Name  string
	Lexer string
}

// supported is the fixed, ordered set of languages offered on the form.
var supported = []Language{
	{"Python", "python"},
	{"Jinja2", "jinja"},
	{"HTML/Jinja2", "html+jinja"},
	{"Ruby", "ruby"},
	{"C", "c"},
	{"C++", "cpp"},
	{"Jscript", "javascript"},
	{"DjangoTemplate", "html+django"},
	{"Sql", "sql"},
	{"Css", "css"},
	{"Xml", "xml"},
	{"Diff", "diff"},
	{"Rhtml", "rhtml"},
	{"Haskell", "haskell"},
	{"Apache", "apache"},
	{"Bash", "bash"},
	{"Java", "java"},
	{"Lua", "lua"},
	{"Scala", "scala"},
	{"Erlang", "erlang"},
	{"HTML", "html"},
	{"CSS", "css"},
	{"PHPTemplate", "html+php"},
	{"PHP", "php"},
	{"C#", "csharp"},
	{"CommonLisp", "common-lisp"},
}

var byName = func() map[string]string {
	m := make(map[string]string, len(supported))
	for _, l := range supported {
		m[l.Name] = l.Lexer
	}
	return m
}()

// Resolve returns the lexer identifier for a display name. The match is
// exact; unknown names report false.
func Resolve(name string) (string, bool) {
	lexer, ok := byName[name]
	return lexer, ok
}

// Names returns the display names in presentation order.
func Names() []string {
	names := make([]string, len(supported))
	for i, l := range supported {
		names[i] = l.Name
	}
	return names
}

// All returns a copy of the supported languages in presentation order.
func All() []Language {
	return append([]Language(nil), supported...)
}
