package rules

type seedRule struct {
	linter, ruleID, category string
	fixable                  bool
	complexity, desc, fix    string
}

// seedRecords returns the hardcoded rule table.
func seedRecords() []Record {
	table := []seedRule{
		// ansible-lint
		{"ansible-lint", "name[play]", "naming", false, "medium", "All plays should be named", "Add a descriptive name to the play"},
		{"ansible-lint", "name[missing]", "naming", false, "medium", "All tasks should be named", "Add a descriptive name to the task"},
		{"ansible-lint", "name[casing]", "naming", true, "low", "All names should start with an uppercase letter", "Capitalize the first letter"},
		{"ansible-lint", "name[template]", "naming", false, "medium", "Jinja templates should only be at the end of name", "Rewrite the name"},
		{"ansible-lint", "yaml[indentation]", "formatting", true, "low", "Wrong indentation", "Reindent"},
		{"ansible-lint", "yaml[trailing-spaces]", "formatting", true, "low", "Trailing spaces", "Strip trailing spaces"},
		{"ansible-lint", "yaml[truthy]", "style", true, "low", "Truthy value should be true or false", "Replace yes/no with true/false"},
		{"ansible-lint", "yaml[line-length]", "formatting", false, "medium", "Line too long", "Split the line by hand"},
		{"ansible-lint", "yaml[comments]", "formatting", true, "low", "Comment formatting", "Add space after #"},
		{"ansible-lint", "yaml[empty-lines]", "formatting", true, "low", "Too many blank lines", "Remove blank lines"},
		{"ansible-lint", "yaml[new-line-at-end-of-file]", "formatting", true, "low", "No new line at end of file", "Append newline"},
		{"ansible-lint", "yaml[key-duplicates]", "logic", false, "medium", "Duplicated key", "Choose the intended value"},
		{"ansible-lint", "fqcn[action-core]", "style", true, "low", "Use FQCN for builtin actions", "Prefix with ansible.builtin"},
		{"ansible-lint", "fqcn[action]", "style", true, "low", "Use FQCN for module actions", "Use the collection name"},
		{"ansible-lint", "no-free-form", "style", true, "low", "Avoid free-form module calls", "Convert to mapping syntax"},
		{"ansible-lint", "jinja[spacing]", "formatting", true, "low", "Jinja2 spacing could be improved", "Normalize spacing"},
		{"ansible-lint", "key-order[task]", "style", true, "low", "Task keys out of order", "Reorder keys"},
		{"ansible-lint", "deprecated-local-action", "style", true, "low", "Do not use local_action", "Use delegate_to: localhost"},
		{"ansible-lint", "risky-file-permissions", "security", false, "medium", "File permissions unset or incorrect", "Set mode explicitly"},
		{"ansible-lint", "no-changed-when", "logic", false, "medium", "Commands should not change things if nothing needs doing", "Add changed_when"},
		{"ansible-lint", "command-instead-of-module", "logic", false, "high", "Using command rather than module", "Rewrite with the module"},
		{"ansible-lint", "args[module]", "logic", false, "high", "Unsupported module parameters", "Fix module arguments"},
		{"ansible-lint", "package-latest", "logic", false, "medium", "Package installs should not use latest", "Pin a version"},
		{"ansible-lint", "risky-shell-pipe", "logic", false, "medium", "Shells that use pipes should set pipefail", "Add set -o pipefail"},

		// flake8 / pycodestyle / pyflakes
		{"flake8", "E101", "formatting", true, "low", "Indentation contains mixed spaces and tabs", "Reindent"},
		{"flake8", "E111", "formatting", true, "low", "Indentation is not a multiple of four", "Reindent"},
		{"flake8", "E231", "formatting", true, "low", "Missing whitespace after ','", "Insert whitespace"},
		{"flake8", "E302", "formatting", true, "low", "Expected 2 blank lines", "Insert blank lines"},
		{"flake8", "E303", "formatting", true, "low", "Too many blank lines", "Remove blank lines"},
		{"flake8", "E501", "formatting", true, "low", "Line too long", "Wrap the line"},
		{"flake8", "W291", "formatting", true, "low", "Trailing whitespace", "Strip whitespace"},
		{"flake8", "W293", "formatting", true, "low", "Whitespace on blank line", "Strip whitespace"},
		{"flake8", "F401", "unused", true, "low", "Module imported but unused", "Remove import"},
		{"flake8", "F841", "unused", true, "low", "Local variable assigned but never used", "Remove assignment"},
		{"flake8", "F821", "logic", false, "high", "Undefined name", "Define or import the name"},
		{"flake8", "E999", "syntax", false, "high", "Syntax error", "Fix the syntax"},

		// ruff shares pyflakes/pycodestyle codes
		{"ruff", "F401", "unused", true, "low", "Module imported but unused", "Remove import"},
		{"ruff", "E501", "formatting", true, "low", "Line too long", "Wrap the line"},
		{"ruff", "I001", "imports", true, "low", "Import block is unsorted", "Sort imports"},
		{"ruff", "F821", "logic", false, "high", "Undefined name", "Define or import the name"},

		// pylint
		{"pylint", "unused-import", "unused", true, "low", "Unused import", "Remove import"},
		{"pylint", "line-too-long", "formatting", true, "low", "Line too long", "Wrap the line"},
		{"pylint", "trailing-whitespace", "formatting", true, "low", "Trailing whitespace", "Strip whitespace"},
		{"pylint", "missing-final-newline", "formatting", true, "low", "Missing final newline", "Append newline"},
		{"pylint", "missing-module-docstring", "documentation", false, "medium", "Missing module docstring", "Write a docstring"},
		{"pylint", "missing-function-docstring", "documentation", false, "medium", "Missing function docstring", "Write a docstring"},
		{"pylint", "invalid-name", "naming", false, "medium", "Name does not conform to naming style", "Rename consistently"},
		{"pylint", "too-many-branches", "complexity", false, "high", "Too many branches", "Refactor"},

		// eslint
		{"eslint", "semi", "style", true, "low", "Missing semicolon", "Insert semicolon"},
		{"eslint", "quotes", "style", true, "low", "Wrong quote style", "Switch quotes"},
		{"eslint", "indent", "formatting", true, "low", "Wrong indentation", "Reindent"},
		{"eslint", "comma-dangle", "style", true, "low", "Trailing comma style", "Adjust trailing comma"},
		{"eslint", "prefer-const", "style", true, "low", "Use const", "Replace let with const"},
		{"eslint", "no-var", "style", true, "low", "Unexpected var", "Replace var with let/const"},
		{"eslint", "no-unused-vars", "unused", true, "low", "Unused variable", "Remove binding"},
		{"eslint", "no-undef", "logic", false, "high", "Undefined identifier", "Define or import it"},
		{"eslint", "eqeqeq", "logic", false, "medium", "Expected === instead of ==", "Review comparison semantics"},
		{"eslint", "no-console", "logic", false, "medium", "Unexpected console statement", "Decide whether to log"},
		{"eslint", "complexity", "complexity", false, "high", "Function too complex", "Refactor"},
		{"eslint", "max-len", "formatting", false, "medium", "Line too long", "Split by hand"},

		// golangci-lint
		{"golangci-lint", "gofmt", "formatting", true, "low", "File is not gofmt-ed", "Run gofmt"},
		{"golangci-lint", "goimports", "imports", true, "low", "File is not goimports-ed", "Run goimports"},
		{"golangci-lint", "misspell", "style", true, "low", "Misspelled word", "Fix spelling"},
		{"golangci-lint", "godot", "style", true, "low", "Comment should end in a period", "Add period"},
		{"golangci-lint", "unused", "unused", true, "low", "Unused declaration", "Remove it"},
		{"golangci-lint", "ineffassign", "unused", true, "low", "Ineffectual assignment", "Remove assignment"},
		{"golangci-lint", "errcheck", "logic", false, "medium", "Unchecked error", "Handle the error"},
		{"golangci-lint", "govet", "logic", false, "high", "Suspicious construct", "Review the code"},
		{"golangci-lint", "gosec", "security", false, "high", "Security issue", "Review the code"},
		{"golangci-lint", "gocyclo", "complexity", false, "high", "Cyclomatic complexity too high", "Refactor"},

		// shellcheck
		{"shellcheck", "SC2086", "style", true, "low", "Double quote to prevent globbing and word splitting", "Quote the expansion"},
		{"shellcheck", "SC2006", "style", true, "low", "Use $(...) instead of backticks", "Rewrite substitution"},
		{"shellcheck", "SC2155", "style", true, "low", "Declare and assign separately", "Split the line"},
		{"shellcheck", "SC2034", "unused", true, "low", "Variable appears unused", "Remove or export"},
		{"shellcheck", "SC1091", "logic", false, "medium", "Not following sourced file", "Add a source directive"},

		// yamllint
		{"yamllint", "indentation", "formatting", true, "low", "Wrong indentation", "Reindent"},
		{"yamllint", "trailing-spaces", "formatting", true, "low", "Trailing spaces", "Strip spaces"},
		{"yamllint", "truthy", "style", true, "low", "Truthy value", "Use true/false"},
		{"yamllint", "document-start", "formatting", true, "low", "Missing document start", "Add ---"},
		{"yamllint", "comments", "formatting", true, "low", "Comment formatting", "Add space after #"},
		{"yamllint", "empty-lines", "formatting", true, "low", "Too many blank lines", "Remove blank lines"},
		{"yamllint", "new-line-at-end-of-file", "formatting", true, "low", "No newline at end of file", "Append newline"},
		{"yamllint", "line-length", "formatting", false, "medium", "Line too long", "Split by hand"},
		{"yamllint", "key-duplicates", "logic", false, "medium", "Duplicated key", "Choose the intended value"},

		// rubocop
		{"rubocop", "Layout/TrailingWhitespace", "formatting", true, "low", "Trailing whitespace", "Strip whitespace"},
		{"rubocop", "Style/StringLiterals", "style", true, "low", "Prefer single-quoted strings", "Switch quotes"},
		{"rubocop", "Lint/UselessAssignment", "unused", true, "low", "Useless assignment", "Remove assignment"},
		{"rubocop", "Metrics/MethodLength", "complexity", false, "high", "Method too long", "Refactor"},
		{"rubocop", "Security/Eval", "security", false, "high", "Avoid eval", "Rewrite without eval"},

		// markdownlint
		{"markdownlint", "MD009", "formatting", true, "low", "Trailing spaces", "Strip spaces"},
		{"markdownlint", "MD022", "formatting", true, "low", "Headings should be surrounded by blank lines", "Insert blank lines"},
		{"markdownlint", "MD032", "formatting", true, "low", "Lists should be surrounded by blank lines", "Insert blank lines"},
		{"markdownlint", "MD013", "formatting", false, "medium", "Line length", "Split by hand"},
		{"markdownlint", "MD041", "documentation", false, "medium", "First line should be a top-level heading", "Write a heading"},

		// stylelint
		{"stylelint", "indentation", "formatting", true, "low", "Wrong indentation", "Reindent"},
		{"stylelint", "color-hex-case", "style", true, "low", "Hex color case", "Normalize case"},
		{"stylelint", "no-descending-specificity", "logic", false, "high", "Descending specificity", "Reorder selectors"},
	}

	records := make([]Record, 0, len(table))
	for _, r := range table {
		records = append(records, Record{
			Linter:      r.linter,
			RuleID:      r.ruleID,
			Category:    r.category,
			AutoFixable: r.fixable,
			Complexity:  r.complexity,
			Description: r.desc,
			FixStrategy: r.fix,
			Source:      SourceSeed,
		})
	}
	return records
}
