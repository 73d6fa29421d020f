// internal/workers/inquiry/detect-language/patterns.go
package detectlanguage

import "regexp"

// Pattern tables are compiled once at package init and are read-only
// afterwards, so concurrent detection needs no locking.

var devanagariRe = regexp.MustCompile(`[\x{0900}-\x{097F}]`)
var latinRe = regexp.MustCompile(`[a-zA-Z]`)

var hindiDevanagariPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[\x{0900}-\x{097F}]+`),
	regexp.MustCompile(`(विषय|यात्रा|पूछताछ|वयस्क|बच्चे|नमस्ते|धन्यवाद)`),
	regexp.MustCompile(`(के\s+लिए|की\s+यात्रा|में|से|तक|और|या)`),
}

// Romanized-Hindi and Hinglish tables hold only distinctly Hindi tokens.
// Shared travel vocabulary (hotel, budget, trip) lives in the code-mix
// sets below so plain English never scores as a mixed language.
var hindiEnglishPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(namaste|namaskar|dhanyawad|shukriya)\b`),
	regexp.MustCompile(`\b(yatra|safar|ghumna|jana)\b`),
	regexp.MustCompile(`\b(vyakti|log|bachhe|vyask)\b`),
	regexp.MustCompile(`\b(ke\s+liye|ki\s+yatra|mein|tak|aur)\b`),
	regexp.MustCompile(`\b(paisa|rupaye|kharcha)\b`),
	regexp.MustCompile(`\b(ghar|jagah|batayein)\b`),
}

var hinglishPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(hamare|humara|tumhare|mera|apna)\b`),
	regexp.MustCompile(`\b(chahiye|chahta|milega|hogi|denge)\b`),
	regexp.MustCompile(`\b(bhi|toh|aur|ke\s+liye)\b`),
	regexp.MustCompile(`\b(karna|karo|bhej|dobara|jaldi)\b`),
	regexp.MustCompile(`\b(accha|theek|sahi|jisme)\b`),
}

var englishPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(hope|well|client|planning|departing|preferred)\b`),
	regexp.MustCompile(`\b(adults|children|travelers|travellers|nights|days)\b`),
	regexp.MustCompile(`\b(hotel|resort|activities|flights|budget|special)\b`),
	regexp.MustCompile(`\b(request|regards|thanks|kindly|please)\b`),
}

var formalEnglishPatterns = []*regexp.Regexp{
	regexp.MustCompile(`hope\s+you.*well`),
	regexp.MustCompile(`kindly\s+send`),
	regexp.MustCompile(`please\s+\w+`),
	regexp.MustCompile(`would\s+like\s+to`),
	regexp.MustCompile(`we\s+are\s+planning`),
}

// Code-mix sets used for the both-present bonus: English content words
// next to Hindi function words signal Hinglish.
var mixedEnglishWordsRe = regexp.MustCompile(`\b(client|trip|hotel|budget|send|update)\b`)
var mixedHindiWordsRe = regexp.MustCompile(`\b(hamare|chahiye|ke|liye|aur|dobara)\b`)

var hindiMarkers = []string{"नमस्ते", "नमस्कार", "धन्यवाद", "कृपया", "विषय"}
var hindiEnglishMarkers = []string{"namaste", "namaskar", "dhanyawad", "shukriya", "vishay"}
var hinglishMarkers = []string{"hamare client", "ke liye", "chahiye", "jana chahta", "dobara"}
var englishMarkers = []string{"hope you", "doing well", "regards", "thanks", "kindly"}
