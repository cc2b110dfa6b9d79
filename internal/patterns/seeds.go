package patterns

// seed builds one curated pattern.
func seed(lang, linter, pattern, errorType string, fixable bool, confidence float64, desc string) ErrorPattern {
	return ErrorPattern{
		Pattern:     pattern,
		Language:    lang,
		Linter:      linter,
		ErrorType:   errorType,
		Fixable:     fixable,
		Confidence:  confidence,
		Description: desc,
	}
}

// DefaultPatterns returns the curated patterns keyed by language. Each call
// returns fresh slices.
func DefaultPatterns() map[string][]ErrorPattern {
	return map[string][]ErrorPattern{
		"python": {
			seed("python", "flake8", "trailing whitespace", "whitespace", true, 0.95, "Remove trailing whitespace"),
			seed("python", "flake8", "blank line contains whitespace", "whitespace", true, 0.95, "Strip whitespace from blank line"),
			seed("python", "flake8", "expected 2 blank lines", "blank_lines", true, 0.9, "Insert blank lines between definitions"),
			seed("python", "flake8", "too many blank lines", "blank_lines", true, 0.9, "Remove extra blank lines"),
			seed("python", "flake8", "imported but unused", "unused", true, 0.85, "Remove the unused import"),
			seed("python", "flake8", "line too long", "line_length", true, 0.75, "Wrap the line"),
			seed("python", "flake8", "missing whitespace after", "whitespace", true, 0.9, "Insert whitespace"),
			seed("python", "flake8", "undefined name", "undefined", false, 0.85, "Name is not defined anywhere"),
			seed("python", "pylint", "missing-module-docstring", "documentation", false, 0.6, "Docstring content needs authoring"),
			seed("python", "pylint", "unused-import", "unused", true, 0.85, "Remove the unused import"),
			seed("python", "pylint", "too-many-branches", "complexity", false, 0.9, "Requires refactoring"),
			seed("python", "mypy", "incompatible types", "typing", false, 0.8, "Type mismatch needs a logic change"),
			seed("python", "", "invalid syntax", "syntax", false, 0.9, "Source does not parse"),
		},
		"javascript": {
			seed("javascript", "eslint", "missing semicolon", "style", true, 0.95, "Insert semicolon"),
			seed("javascript", "eslint", "extra semicolon", "style", true, 0.95, "Remove semicolon"),
			seed("javascript", "eslint", "strings must use singlequote", "style", true, 0.9, "Switch quote style"),
			seed("javascript", "eslint", "expected indentation of", "indentation", true, 0.9, "Reindent"),
			seed("javascript", "eslint", "is assigned a value but never used", "unused", true, 0.75, "Remove the unused binding"),
			seed("javascript", "eslint", "is never reassigned. use 'const' instead", "style", true, 0.9, "Use const"),
			seed("javascript", "eslint", "is not defined", "undefined", false, 0.85, "Identifier is not defined"),
			seed("javascript", "eslint", "unexpected token", "syntax", false, 0.9, "Source does not parse"),
		},
		"typescript": {
			seed("typescript", "eslint", "missing semicolon", "style", true, 0.95, "Insert semicolon"),
			seed("typescript", "eslint", "is defined but never used", "unused", true, 0.75, "Remove the unused binding"),
			seed("typescript", "tsc", "is not assignable to type", "typing", false, 0.85, "Type mismatch needs a logic change"),
			seed("typescript", "eslint", "unexpected any", "typing", false, 0.7, "Needs a concrete type"),
		},
		"go": {
			seed("go", "gofmt", "file is not `gofmt`-ed", "formatting", true, 0.95, "Run gofmt"),
			seed("go", "goimports", "file is not `goimports`-ed", "imports", true, 0.95, "Run goimports"),
			seed("go", "golangci-lint", "ineffectual assignment", "unused", true, 0.75, "Remove the assignment"),
			seed("go", "golangci-lint", "is unused", "unused", true, 0.75, "Remove the unused declaration"),
			seed("go", "golangci-lint", "error return value is not checked", "error_handling", false, 0.85, "Error handling needs a decision"),
			seed("go", "golangci-lint", "cyclomatic complexity", "complexity", false, 0.9, "Requires refactoring"),
			seed("go", "golangci-lint", "should have comment", "documentation", false, 0.6, "Doc comment needs authoring"),
		},
		"ansible": {
			seed("ansible", "ansible-lint", "wrong indentation", "indentation", true, 0.9, "Reindent"),
			seed("ansible", "ansible-lint", "trailing spaces", "whitespace", true, 0.95, "Remove trailing spaces"),
			seed("ansible", "ansible-lint", "truthy value should be one of", "boolean", true, 0.9, "Use true/false"),
			seed("ansible", "ansible-lint", "use fqcn for builtin module actions", "fqcn", true, 0.9, "Use the fully qualified collection name"),
			seed("ansible", "ansible-lint", "all names should start with an uppercase letter", "naming", true, 0.85, "Capitalize the name"),
			seed("ansible", "ansible-lint", "jinja2 spacing could be improved", "jinja", true, 0.85, "Normalize Jinja spacing"),
			seed("ansible", "ansible-lint", "commands should not change things if nothing needs doing", "idempotency", false, 0.8, "Needs changed_when logic"),
			seed("ansible", "ansible-lint", "unsupported parameters", "args", false, 0.85, "Module arguments are wrong"),
		},
		"yaml": {
			seed("yaml", "yamllint", "wrong indentation", "indentation", true, 0.9, "Reindent"),
			seed("yaml", "yamllint", "trailing spaces", "whitespace", true, 0.95, "Remove trailing spaces"),
			seed("yaml", "yamllint", "missing document start", "document", true, 0.9, "Add ---"),
			seed("yaml", "yamllint", "no new line character at the end of file", "whitespace", true, 0.95, "Append newline"),
			seed("yaml", "yamllint", "too many blank lines", "blank_lines", true, 0.9, "Remove blank lines"),
			seed("yaml", "yamllint", "duplication of key", "duplicate_key", false, 0.8, "Pick the intended value"),
			seed("yaml", "yamllint", "syntax error", "syntax", false, 0.9, "Document does not parse"),
		},
		"shell": {
			seed("shell", "shellcheck", "double quote to prevent globbing", "quoting", true, 0.9, "Quote the expansion"),
			seed("shell", "shellcheck", "use $(...) notation instead of legacy backticks", "style", true, 0.9, "Use $(...)"),
			seed("shell", "shellcheck", "declare and assign separately", "style", true, 0.8, "Split declaration"),
			seed("shell", "shellcheck", "appears unused", "unused", true, 0.7, "Remove or export the variable"),
			seed("shell", "shellcheck", "not following", "sourcing", false, 0.7, "Needs a source directive"),
		},
		"ruby": {
			seed("ruby", "rubocop", "trailing whitespace detected", "whitespace", true, 0.95, "Remove trailing whitespace"),
			seed("ruby", "rubocop", "prefer single-quoted strings", "style", true, 0.9, "Switch quote style"),
			seed("ruby", "rubocop", "useless assignment to variable", "unused", true, 0.75, "Remove the assignment"),
			seed("ruby", "rubocop", "method has too many lines", "complexity", false, 0.9, "Requires refactoring"),
		},
		"css": {
			seed("css", "stylelint", "expected indentation of", "indentation", true, 0.9, "Reindent"),
			seed("css", "stylelint", "expected \"#", "style", true, 0.85, "Normalize hex case"),
			seed("css", "stylelint", "unexpected duplicate selector", "duplicate", false, 0.7, "Merge selectors"),
		},
		"markdown": {
			seed("markdown", "markdownlint", "trailing spaces", "whitespace", true, 0.95, "Remove trailing spaces"),
			seed("markdown", "markdownlint", "headings should be surrounded by blank lines", "blank_lines", true, 0.9, "Insert blank lines"),
			seed("markdown", "markdownlint", "lists should be surrounded by blank lines", "blank_lines", true, 0.9, "Insert blank lines"),
			seed("markdown", "markdownlint", "first line in a file should be a top-level heading", "structure", false, 0.6, "Heading needs authoring"),
		},
	}
}
