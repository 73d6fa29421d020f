// internal/workers/inquiry/extract-fields/patterns.go
package extractfields

import "regexp"

// Date extraction. Year is not carried in inquiry emails; dates resolve
// against the current booking year.
var (
	monthNames = "january|february|march|april|may|june|july|august|september|october|november|december" +
		"|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec"

	dayMonthRe      = regexp.MustCompile(`(?i)(\d{1,2})\s+(` + monthNames + `)`)
	betweenStartRe  = regexp.MustCompile(`(?i)between\s+(\d{1,2})\s+(\w+)`)
	betweenEndRe    = regexp.MustCompile(`(?i)between\s+\d{1,2}\s+\w+\s+and\s+(\d{1,2})\s+(\w+)`)
	toEndRe         = regexp.MustCompile(`(?i)to\s+(\d{1,2})\s+(\w+)`)
	takEndRe        = regexp.MustCompile(`(?i)(\d{1,2})\s+(\w+)\s+tak`)
	monthToNumber   = map[string]int{
		"january": 1, "jan": 1,
		"february": 2, "feb": 2,
		"march": 3, "mar": 3,
		"april": 4, "apr": 4,
		"may":  5,
		"june": 6, "jun": 6,
		"july": 7, "jul": 7,
		"august": 8, "aug": 8,
		"september": 9, "sep": 9,
		"october": 10, "oct": 10,
		"november": 11, "nov": 11,
		"december": 12, "dec": 12,
	}
)

// Traveler extraction.
var (
	// Explicit adults + children breakdown, English and Hindi joiners.
	adultsChildrenRe = regexp.MustCompile(`(?i)(\d+)\s*(?:adults?|वयस्क)\s*(?:and|&|\+|aur|और|तथा)?\s*(\d+)\s*(?:children?|child|kids?|बच्चे|बच्चा)`)
	// Total with parenthesized breakdown: "6 travelers (including 4 adults and 2 children)".
	totalBreakdownRe = regexp.MustCompile(`(?i)(\d+)\s+(?:travellers?|travelers?|log|pax)\s*\(\s*(?:including|jisme)\s+(\d+)\s+adults?\s*(?:and|&|\+|aur)?\s*(\d+)\s+(?:children?|child)\s*\)`)
	adultsOnlyRe     = regexp.MustCompile(`(?i)(\d+)\s*(?:adults?|वयस्क)`)
	totalNounRe      = regexp.MustCompile(`(?i)(\d+)\s*(?:travellers?|travelers?|pax|people|persons?|यात्री|व्यक्ति|लोग)`)
	totalLogRe       = regexp.MustCompile(`(?i)(\d+)\s+log\b`)
	groupOfRe        = regexp.MustCompile(`(?i)(?:family\s+of|group\s+of|total\s+of)\s+(\d+)`)
)

// Duration extraction.
var (
	nightsDaysRe = regexp.MustCompile(`(?i)(\d+)\s*n(?:ights?)?\s*/\s*(\d+)\s*d(?:ays?)?`)
	nightsRe     = regexp.MustCompile(`(?i)(\d+)\s*(?:nights?|रात)`)
	daysRe       = regexp.MustCompile(`(?i)(\d+)\s*(?:days?|दिन)`)
)

// Budget extraction. Indian currency shorthand expands before
// formatting: lakh x100000, crore x10000000, thousand/k x1000.
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)budget.*?(?:rs\.?|inr|₹|rupees?|रुपए|रुपये)\s*([\d,]+)(?:\.\d{2})?(?:\s*(?:per\s+person|pp|each|प्रति\s+व्यक्ति))?`),
	regexp.MustCompile(`(?i)(?:rs\.?|inr|₹|rupees?|रुपए)\s*([\d,]+)(?:\.\d{2})?\s*/?\s*(?:per\s+)?(?:person|pp|each|व्यक्ति|प्रति\s+व्यक्ति)`),
	regexp.MustCompile(`(?i)around\s+(?:rs\.?|inr|₹|rupees?)\s*([\d,]+)`),
	regexp.MustCompile(`(?i)approx\.?\s+(?:rs\.?|inr|₹|rupees?)\s*([\d,]+)`),
	regexp.MustCompile(`(?i)maximum\s+(?:rs\.?|inr|₹|rupees?)\s*([\d,]+)`),
	regexp.MustCompile(`(?i)within\s+(?:rs\.?|inr|₹|rupees?)\s*([\d,]+)`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:lakhs?|लाख)\s*(?:rupees?|rs\.?|रुपए)?`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:thousand|k\b|हजार)\s*(?:rupees?|rs\.?|रुपए)?`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:crores?|करोड़)\s*(?:rupees?|rs\.?|रुपए)?`),
}

// Multiplier per budget pattern index; 1 where the match is already in
// whole rupees.
var budgetMultipliers = []int64{1, 1, 1, 1, 1, 1, 100000, 1000, 10000000}

var perPersonRe = regexp.MustCompile(`(?i)per\s+person|\bpp\b|\beach\b|व्यक्ति`)

// Destination gazetteer. Matched with word boundaries against the
// lowered text; entries keep their display casing.
var destinationGazetteer = []string{
	"Bali", "Singapore", "Dubai", "Maldives", "Goa", "Kerala", "Munnar",
	"Alleppey", "Kochi", "Chennai", "Mumbai", "Delhi", "Bengaluru",
	"Thailand", "Malaysia", "Japan", "Korea", "Vietnam", "Cambodia",
	"Europe", "London", "Paris", "Rome", "Switzerland", "Austria",
	"USA", "Canada", "Australia", "New Zealand", "South Africa",
	"Rajasthan", "Jaipur", "Udaipur", "Jodhpur", "Himachal Pradesh",
	"Manali", "Shimla", "Dharamshala", "Kashmir", "Srinagar", "Ladakh",
	"Uttarakhand", "Rishikesh", "Haridwar", "Nainital", "Mussoorie",
	"Tamil Nadu", "Ooty", "Kodaikanal", "Rameswaram", "Kanyakumari",
	"Karnataka", "Mysore", "Coorg", "Hampi", "Chikmagalur",
	"Andhra Pradesh", "Hyderabad", "Tirupati", "Vizag", "Araku",
}

var destinationRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(destinationGazetteer))
	for _, dest := range destinationGazetteer {
		res[dest] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(dest) + `\b`)
	}
	return res
}()

// Departure city detection.
var departurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)departing\s+from\s+(\w+)`),
	regexp.MustCompile(`(?i)departure\s+from\s+(\w+)`),
	regexp.MustCompile(`(?i)from\s+(\w+)\s+(?:to|on|between)`),
	regexp.MustCompile(`(?i)starting\s+from\s+(\w+)`),
	regexp.MustCompile(`(?i)leaving\s+from\s+(\w+)`),
	regexp.MustCompile(`(?i)flying\s+from\s+(\w+)`),
	regexp.MustCompile(`(?i)travel\s+from\s+(\w+)`),
}

var indianCities = map[string]struct{}{
	"mumbai": {}, "delhi": {}, "bangalore": {}, "bengaluru": {}, "chennai": {},
	"kolkata": {}, "hyderabad": {}, "pune": {}, "ahmedabad": {}, "jaipur": {},
	"surat": {}, "lucknow": {}, "kanpur": {}, "nagpur": {}, "indore": {},
	"thane": {}, "bhopal": {}, "visakhapatnam": {}, "patna": {}, "vadodara": {},
	"ghaziabad": {}, "ludhiana": {}, "agra": {}, "nashik": {}, "faridabad": {},
	"meerut": {}, "rajkot": {}, "varanasi": {}, "srinagar": {}, "aurangabad": {},
	"amritsar": {}, "allahabad": {}, "ranchi": {}, "gwalior": {}, "jabalpur": {},
	"coimbatore": {}, "vijayawada": {}, "jodhpur": {}, "madurai": {}, "raipur": {},
	"kota": {}, "guwahati": {}, "chandigarh": {}, "solapur": {},
}

// Hotel preference extraction, ordered by specificity.
var hotelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)[-\s]star\s+(?:hotel|resort|villa)`),
	regexp.MustCompile(`(?i)(water\s+villa)`),
	regexp.MustCompile(`(?i)(resort\s+villa)`),
	regexp.MustCompile(`(?i)(beach\s+resort)`),
	regexp.MustCompile(`(?i)(luxury\s+hotel)`),
	regexp.MustCompile(`(?i)(boutique\s+hotel)`),
	regexp.MustCompile(`(?i)preferred\s+hotel\s+is\s+([^.]+)`),
	regexp.MustCompile(`(?i)hotel\s+preference:\s+([^.]+)`),
	regexp.MustCompile(`(?i)hotel:\s+([^.]+)`),
}

// Meal preference extraction.
var mealPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(all\s+meals?)`),
	regexp.MustCompile(`(?i)(breakfast\s+only)`),
	regexp.MustCompile(`(?i)(breakfast\s+and\s+dinner)`),
	regexp.MustCompile(`(?i)(indian-style\s+dinners?)`),
	regexp.MustCompile(`(?i)(veg\s+meals?)`),
	regexp.MustCompile(`(?i)with\s+(all\s+meals?)`),
	regexp.MustCompile(`(?i)जिसमें\s+(breakfast\s+only)`),
}

// Activity keyword lexicon from observed inquiries.
var activityKeywords = []string{
	"kintamani sunrise", "ubud tour", "tanah lot temple", "gardens by the bay",
	"sentosa tour", "marina bay sands", "beach hopping", "dudhsagar falls",
	"pahalgam valley", "gulmarg gondola", "ubud cultural tour", "dhow cruise",
	"desert safari", "global village", "burj khalifa", "kufri trip",
	"mall road stroll", "bangkok city tour", "phi phi island",
	"james bond island", "spa session", "romantic dinner", "snorkeling",
}

var (
	includeActivitiesRe = regexp.MustCompile(`(?i)they\s+would\s+like\s+to\s+include\s+([^.]+)`)
	activitiesLabelRe   = regexp.MustCompile(`(?i)(?:activities|गतिविधियाँ):?\s*([^.]+)`)
	activitySplitRe     = regexp.MustCompile(`,\s*and\s+|,\s*|\s+and\s+`)
)

// Flight requirement.
var (
	flightNotRequiredRe = regexp.MustCompile(`(?i)flights?\s+(?:are\s+)?not\s+(?:required|needed)`)
	flightRequiredRe    = regexp.MustCompile(`(?i)flights?\s+(?:are\s+)?(?:required|needed)|flights?\s+आवश्यक\s+हैं`)
)

// Special requests.
var specialRequestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)special\s+requests?:\s*([^.]+)`),
	regexp.MustCompile(`(?i)विशेष\s+अनुरोध:\s*([^.]+)`),
	regexp.MustCompile(`(?i)(wheelchair\s+access)`),
	regexp.MustCompile(`(?i)(birthday\s+cake)`),
	regexp.MustCompile(`(?i)(romantic\s+setup)`),
	regexp.MustCompile(`(?i)(visa\s+assistance)`),
	regexp.MustCompile(`(?i)(airport\s+pickup)`),
}

var specialPrefixRe = regexp.MustCompile(`(?i)^(special\s+requests?\s*[:;]?\s*|includes?\s+)`)

// Deadline phrases.
var deadlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(asap)`),
	regexp.MustCompile(`(?i)(by\s+eod)`),
	regexp.MustCompile(`(?i)(by\s+tomorrow)`),
	regexp.MustCompile(`(?i)within\s+(\d+)\s+days?`),
}

// Contact details.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+91[\s-]?\d{10}`),
	regexp.MustCompile(`\b\d{10}\b`),
	regexp.MustCompile(`\+\d{1,3}[\s-]?\d{10,12}`),
	regexp.MustCompile(`\(\d{3}\)[\s-]?\d{3}[\s-]?\d{4}`),
}

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
