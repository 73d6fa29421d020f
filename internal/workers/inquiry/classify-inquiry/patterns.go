// internal/workers/inquiry/classify-inquiry/patterns.go
package classifyinquiry

import "regexp"

// Modification indicators, checked against the subject line first and
// then the full text. Any hit decides the classification.
var modificationPatterns = []*regexp.Regexp{
	// Subject line prefixes
	regexp.MustCompile(`(?i)^re:\s+trip`),
	regexp.MustCompile(`(?i)^re:\s+.*query`),
	regexp.MustCompile(`(?i)^re:\s+travel`),
	// Change language in the body
	regexp.MustCompile(`(?i)(?:client\s+)?(?:has\s+)?made\s+(?:some\s+)?changes`),
	regexp.MustCompile(`(?i)(?:client\s+)?(?:ne\s+)?kuch\s+changes\s+kiye`),
	regexp.MustCompile(`(?i)would\s+like\s+to\s+(?:add|change|modify)`),
	regexp.MustCompile(`(?i)they\s+would\s+like\s+to\s+add`),
	regexp.MustCompile(`(?i)kindly\s+update\s+the\s+quote`),
	regexp.MustCompile(`(?i)update.*quote.*resend`),
	regexp.MustCompile(`(?i)resend.*updated`),
	// References to an existing quote or booking
	regexp.MustCompile(`(?i)existing\s+(?:quote|booking|itinerary)`),
	regexp.MustCompile(`(?i)original\s+(?:quote|booking|request)`),
	regexp.MustCompile(`(?i)increasing\s+the\s+number`),
	regexp.MustCompile(`(?i)dates\s+also\s+need\s+to\s+change`),
	regexp.MustCompile(`(?i)prefer\s+from\s+.*\s+to\s+.*`),
}

// Location-scoped preference sections: "For Singapore, we'd like to stay ...".
// Two distinct locations in sections like these is the strongest
// multi-leg signal.
var locationPreferencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)for\s+(\w+),\s+we'?d?\s+like\s+(?:to\s+stay|\d+\s+nights)`),
	regexp.MustCompile(`(?i)for\s+(\w+),\s+we'?d?\s+like\s+(?:\d+\s+nights|\w+\s+hotel)`),
	regexp.MustCompile(`(?i)for\s+(\w+).*?stay\s+\d+\s+nights`),
	regexp.MustCompile(`(?i)for\s+(\w+).*?(?:hotel|accommodation|stay)`),
	regexp.MustCompile(`(?i)in\s+(\w+),\s+we'?d?\s+like\s+(?:to\s+stay|\d+\s+nights)`),
	regexp.MustCompile(`(?i)in\s+(\w+).*?stay\s+\d+\s+nights`),
}

// Explicit paired-destination phrasing.
var multiLegPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\w+)\s+(?:and|&|\+)\s+(\w+)`),
	regexp.MustCompile(`(?i)(\w+)\s*,\s*(\w+)`),
	regexp.MustCompile(`(?i)(\w+)\s+aur\s+(\w+)`),
	regexp.MustCompile(`(?i)(\w+)\s+&\s+(\w+)`),
	regexp.MustCompile(`(?i)for\s+(\w+).*for\s+(\w+)`),
	regexp.MustCompile(`(?i)(\w+):\s+.*(\w+):`),
	regexp.MustCompile(`(?i)group.*(\w+).*(\w+)`),
	regexp.MustCompile(`(?i)travel\s+plans.*(\w+)\s+&\s+(\w+)`),
}

// Destinations paired with any preference vocabulary.
var preferenceIndicatorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:for|in)\s+(\w+).*?(?:nights?|hotel|star|meals?|transport)`),
	regexp.MustCompile(`(?i)(?:for|in)\s+(\w+).*?(?:activities?|tour|visit)`),
}

// Travel-to phrasing, used to count distinct travel destinations as a
// false-positive guard against departure-city mentions.
var travelDestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)trip\s+to\s+(\w+)`),
	regexp.MustCompile(`(?i)travel\s+to\s+(\w+)`),
	regexp.MustCompile(`(?i)visiting\s+(\w+)`),
	regexp.MustCompile(`(?i)going\s+to\s+(\w+)`),
}

// Strong single-leg phrasing: one destination with a traveler count or
// a planning sentence.
var singleLegPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)trip\s+to\s+(\w+)\s+for\s+\d+\s+(?:adults?|travelers?)`),
	regexp.MustCompile(`(?i)planning\s+a\s+\d+\s+nights?\s+trip\s+to\s+(\w+)`),
	regexp.MustCompile(`(?i)client\s+is\s+planning.*?trip\s+to\s+(\w+)`),
	regexp.MustCompile(`(?i)(\w+)\s+for\s+\d+\s+(?:adults?|travelers?)`),
}

// Confidence-scoring tables used when both multi-leg and single-leg
// indicators fire on the same text.
var (
	locationSectionRe = regexp.MustCompile(`(?i)for\s+(\w+),\s+we'?d?\s+like`)

	destSpecificPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)for\s+\w+.*?nights?.*?hotel`),
		regexp.MustCompile(`(?i)in\s+\w+.*?stay.*?nights?`),
	}

	transportPerLocationRe = regexp.MustCompile(`(?i)transportation.*?(?:private|taxi|shuttle|public)`)

	singleConfidencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)trip\s+to\s+\w+\s+for\s+\d+`),
		regexp.MustCompile(`(?i)planning\s+a.*?trip\s+to\s+\w+`),
		regexp.MustCompile(`(?i)client\s+is\s+planning.*?to\s+\w+`),
	}

	generalPreferencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)preferred\s+hotel\s+is`),
		regexp.MustCompile(`(?i)they\s+would\s+like\s+to\s+include`),
		regexp.MustCompile(`(?i)special\s+request`),
		regexp.MustCompile(`(?i)budget\s+is\s+around`),
	}
)
