package validation

const messageFallback = "default"

var defaultMessages = map[string]string{
	RuleRequired:    "The {{ attribute }} field is required.",
	RuleNumeric:     "The {{ attribute }} field must be a number.",
	RuleMin:         "The {{ attribute }} field must be at least {{ value }}.",
	RuleMax:         "The {{ attribute }} field must not be greater than {{ value }}.",
	RuleMinLength:   "The {{ attribute }} field must be at least {{ value }} characters.",
	RuleMaxLength:   "The {{ attribute }} field must not be greater than {{ value }} characters.",
	RulePattern:     "The {{ attribute }} field format is invalid.",
	RuleIn:          "The selected {{ attribute }} is invalid.",
	messageFallback: "The {{ attribute }} field is invalid.",
}
