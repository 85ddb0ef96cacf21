package highlight

import (
	"reflect"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// erb lexes Ruby between <% and %>. Everything outside the tags is emitted
// as Other so a delegating lexer can hand it to the HTML lexer.
var erb = chroma.MustNewLexer(
	&chroma.Config{
		Name:     "ERB",
		Aliases:  []string{"erb"},
		DotAll:   true,
		EnsureNL: true,
	},
	func() chroma.Rules {
		rules := lexers.Get("ruby").(*chroma.RegexLexer).MustRules().Rename("root", "ruby")
		for _, rs := range rules {
			for i, r := range rs {
				if reflect.DeepEqual(r, chroma.Include("root")) {
					rs[i] = chroma.Include("ruby")
				}
			}
		}
		rules["ruby"] = append([]chroma.Rule{
			{Pattern: `-?%>`, Type: chroma.CommentPreproc, Mutator: chroma.Pop(1)},
		}, rules["ruby"]...)

		return rules.Merge(chroma.Rules{
			"root": {
				{Pattern: `<%#.*?%>`, Type: chroma.Comment},
				{Pattern: `<%[=-]?`, Type: chroma.CommentPreproc, Mutator: chroma.Push("ruby")},
				{Pattern: `[^<]+`, Type: chroma.Other},
				{Pattern: `<`, Type: chroma.Other},
			},
		})
	},
)
