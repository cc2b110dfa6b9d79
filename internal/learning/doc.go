// Package learning turns observed fix outcomes into training data, language
// models and patterns.
//
// Every outcome is appended to the language's training store. Once a
// language holds enough examples its text model is refit from the full set.
// Successful outcomes may also yield a new pattern mined from the first words
// of the message, and every existing pattern for the same language and
// linter that matches the message has its confidence nudged toward the
// observed result.
//
// # Usage
//
//	loop := learning.NewLoop(store, models, index, patternStore,
//	    learning.WithLogger(logger),
//	    learning.WithOnChange(cache.Purge),
//	)
//
//	loop.RecordOutcome(ctx, learning.Outcome{
//	    Message:  "W291 trailing whitespace",
//	    Language: "python",
//	    Linter:   "flake8",
//	    Fixable:  true,
//	})
//
// RecordOutcome never fails; problems are logged. Record returns them.
package learning
