package ai

import (
	"regexp"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var conventionalCommitPattern = regexp.MustCompile(`^(feat|fix|docs|style|refactor|test|chore|perf|ci|build|revert)(\([^)]+\))?:\s*.+$`)

func genValidCommitType() gopter.Gen {
	return gen.OneConstOf(
		"feat", "fix", "docs", "style", "refactor",
		"test", "chore", "perf", "ci", "build", "revert",
	)
}

func genOptionalScope() gopter.Gen {
	return gen.OneGenOf(
		gen.Const(""),
		gen.Identifier().Map(func(s string) string {
			if len(s) > 20 {
				return s[:20]
			}
			return s
		}),
	)
}

func genNonEmptySubject() gopter.Gen {
	return gen.Identifier().SuchThat(func(s string) bool {
		return len(s) > 0
	}).Map(func(s string) string {
		if len(s) > 50 {
			return s[:50]
		}
		return s
	})
}

func genValidConventionalCommit() gopter.Gen {
	return gopter.CombineGens(
		genValidCommitType(),
		genOptionalScope(),
		genNonEmptySubject(),
	).Map(func(values []any) string {
		commitType := values[0].(string)
		scope := values[1].(string)
		subject := values[2].(string)

		if scope != "" {
			return commitType + "(" + scope + "): " + subject
		}
		return commitType + ": " + subject
	})
}

func TestProperty_ConventionalCommitParsing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("valid conventional commits are recognized as valid", prop.ForAll(
		func(message string) bool {
			return ParseCommitMessage(message).IsValid
		},
		genValidConventionalCommit(),
	))

	properties.Property("parsed type is always a valid commit type", prop.ForAll(
		func(message string) bool {
			parsed := ParseCommitMessage(message)
			if !parsed.IsValid {
				return true
			}
			return IsValidCommitType(parsed.Type)
		},
		genValidConventionalCommit(),
	))

	properties.Property("formatted subject matches conventional commits pattern", prop.ForAll(
		func(message string) bool {
			parsed := ParseCommitMessage(message)
			if !parsed.IsValid {
				return true
			}
			return conventionalCommitPattern.MatchString(parsed.FormatSubject())
		},
		genValidConventionalCommit(),
	))

	properties.Property("parse then format preserves structure", prop.ForAll(
		func(commitType string, scope string, subject string) bool {
			var original string
			if scope != "" {
				original = commitType + "(" + scope + "): " + subject
			} else {
				original = commitType + ": " + subject
			}

			return ParseCommitMessage(original).FormatSubject() == original
		},
		genValidCommitType(),
		genOptionalScope(),
		genNonEmptySubject(),
	))

	properties.Property("messages without valid type are invalid", prop.ForAll(
		func(invalidType string, subject string) bool {
			if IsValidCommitType(invalidType) {
				return true
			}
			return !ParseCommitMessage(invalidType + ": " + subject).IsValid
		},
		gen.Identifier().SuchThat(func(s string) bool {
			return len(s) > 0 && !IsValidCommitType(s)
		}),
		genNonEmptySubject(),
	))

	properties.TestingRun(t)
}
