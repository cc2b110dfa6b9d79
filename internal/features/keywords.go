package features

// Keyword sets matched against the folded message. Order matters only for
// the order keywords are reported in.
var (
	suggestionWords = []string{"should", "try", "use", "consider", "->", "replace"}
	formattingWords = []string{"spacing", "indent", "format", "length", "comment", "style"}
	domainWords     = []string{"logic", "business", "design", "architecture"}
	logicWords      = []string{"syntax", "parse", "invalid", "unexpected", "missing"}

	// ansibleModuleParamHints mark ansible-lint messages about unsupported
	// module parameters.
	ansibleModuleParamHints = []string{"unsupported parameters", "args[module]"}

	fixableCategories = map[string]bool{"formatting": true, "style": true, "unused": true}
	manualCategories  = map[string]bool{"syntax": true, "logic": true, "security": true}
)

var genericAutoKeywords = []string{
	"trailing whitespace",
	"trailing spaces",
	"whitespace",
	"indentation",
	"unused import",
	"imported but unused",
	"unused variable",
	"missing semicolon",
	"extra semicolon",
	"quotes",
	"line too long",
	"blank line",
	"newline",
	"import order",
	"sorted",
}

var genericManualKeywords = []string{
	"complexity",
	"too many",
	"security",
	"undefined",
	"not defined",
	"deprecated",
	"refactor",
	"duplicate code",
	"type mismatch",
}

// namingManualKeywords are suppressed for ansible-lint, whose naming rules are
// largely mechanical.
var namingManualKeywords = []string{
	"naming convention",
	"invalid name",
	"should be named",
}

// linterAutoKeywords extend the generic list per linter.
var linterAutoKeywords = map[string][]string{
	"ansible-lint": {
		"name[casing]",
		"should start with an uppercase",
		"uppercase letter",
		"capitalize",
		"yaml[indentation]",
		"wrong indentation",
		"yaml[truthy]",
		"truthy value",
		"boolean",
		"yes/no",
		"true/false",
		"yaml[trailing-spaces]",
		"trailing spaces",
		"yaml[key-duplicates]",
		"duplicate key",
		"jinja[spacing]",
		"fqcn",
		"fully qualified",
	},
	"eslint":        {"semi", "quotes", "indent", "comma-dangle", "prefer-const", "no-var", "no-extra-semi"},
	"flake8":        {"expected 2 blank lines", "whitespace after", "whitespace before", "continuation line"},
	"pycodestyle":   {"expected 2 blank lines", "whitespace after", "whitespace before", "continuation line"},
	"pylint":        {"unused-import", "trailing-whitespace", "missing-final-newline", "line-too-long"},
	"ruff":          {"i001", "unsorted"},
	"shellcheck":    {"double quote", "backticks", "$(...)", "declare and assign separately"},
	"yamllint":      {"truthy", "document start", "empty lines", "new line character"},
	"golangci-lint": {"gofmt", "goimports", "ineffectual assignment", "misspell"},
	"rubocop":       {"trailingwhitespace", "stringliterals", "frozen string literal"},
	"markdownlint":  {"md009", "md022", "md032", "surrounded by blank lines"},
}

// linterManualKeywords extend the generic manual list per linter.
var linterManualKeywords = map[string][]string{
	"ansible-lint": {"no-changed-when", "risky", "command-instead-of-module", "package-latest"},
	"eslint":       {"no-undef", "eqeqeq", "no-console"},
	"pylint":       {"too-many", "docstring"},
	"shellcheck":   {"not following"},
}
