package rules

import (
	"github.com/donaldgifford/mdlint/internal/rules/markdown"
)

func init() {
	// Named diagnosis functions first: built-in rule files refer to them.
	RegisterLintFunc("empty", markdown.Empty)
	RegisterLintFunc("all-caps", markdown.AllCaps)

	defs, err := builtinDefinitions()
	if err != nil {
		panic(err)
	}
	for _, def := range defs {
		e, err := EntryFromDefinition(def)
		if err != nil {
			panic(err)
		}
		Register(e)
	}

	Register(&Entry{
		Rule:     markdown.LongParagraph(markdown.DefaultMaxParagraphLength),
		Summary:  "Paragraphs longer than the configured maximum.",
		Severity: SeverityWarn,
	})
	Register(&Entry{
		Rule:     markdown.DuplicateWord(),
		Summary:  "The same word twice in a row.",
		Severity: SeverityError,
	})
}
