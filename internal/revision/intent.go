package revision

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a feedback comment.
type Intent string

const (
	IntentLink       Intent = "link"
	IntentCorrection Intent = "correction"
	IntentRemoval    Intent = "removal"
	IntentAddition   Intent = "addition"
	IntentGeneric    Intent = "generic"
)

type intentRule struct {
	intent   Intent
	keywords []string
}

// Ordered rule list: the first matching category wins, making precedence
// explicit instead of cascading substring checks.
var intentRules = []intentRule{
	{IntentLink, []string{"link", "href", "url", "reference", "cite", "citation"}},
	{IntentCorrection, []string{"typo", "fix", "incorrect", "wrong", "misspell", "grammar", "error"}},
	{IntentRemoval, []string{"remove", "delete", "cut", "drop", "take out"}},
	{IntentAddition, []string{"add", "include", "missing", "insert", "expand"}},
}

// malformedCurrencyRe matches currency with a broken thousands group,
// e.g. "$15,5006".
var malformedCurrencyRe = regexp.MustCompile(`\$\d+(,\d{3})*,\d{4,}`)

// Classify picks the intent category for a feedback comment. A selected
// text matching a malformed-currency pattern forces the correction
// category even without correction keywords; it ranks at correction's
// position in the precedence order.
func Classify(comment, selectedText string) Intent {
	lower := strings.ToLower(comment)
	for _, rule := range intentRules {
		if matchesKeywords(lower, rule.keywords) {
			return rule.intent
		}
		if rule.intent == IntentCorrection && malformedCurrencyRe.MatchString(selectedText) {
			return IntentCorrection
		}
	}

	return IntentGeneric
}

func matchesKeywords(lowerComment string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerComment, kw) {
			return true
		}
	}
	return false
}
