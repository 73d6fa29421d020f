// internal/workers/inquiry/extract-fields/extractor.go
package extractfields

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"travel-inquiry-workers/internal/models"
)

const methodRuleBased = "rule_based"

// Extract runs every field routine over the combined subject+body text.
// Field routines never fail: a field absent from the text yields a nil
// value with confidence 0.
func (h *Handler) Extract(subject, body string) Fields {
	text := strings.ToLower(strings.TrimSpace(subject + " " + body))

	adults := extractAdults(text)
	children := extractChildren(text, adults)

	fields := Fields{
		StartDate:           h.extractStartDate(text),
		EndDate:             h.extractEndDate(text),
		Adults:              adults,
		Children:            children,
		TotalTravelers:      extractTotalTravelers(text, adults, children),
		DepartureCity:       extractDepartureCity(text),
		Destinations:        extractDestinations(text),
		Duration:            extractDuration(text),
		Hotel:               extractHotel(text),
		Meals:               extractMeals(text),
		Activities:          extractActivities(text),
		FlightRequired:      extractFlightRequirement(text),
		Budget:              extractBudget(text, h.config.DefaultCurrency),
		SpecialRequirements: extractSpecialRequests(text),
		Deadline:            extractDeadline(text),
		Phone:               extractPhone(text),
		Email:               extractEmail(text),
	}

	h.crossValidate(&fields, text)
	return fields
}

// crossValidate reconciles fields that constrain each other after all
// routines have run.
func (h *Handler) crossValidate(fields *Fields, text string) {
	if fields.Adults.Found() && fields.Children.Found() && fields.TotalTravelers.Found() {
		calculated := fields.Adults.Get() + fields.Children.Get()
		if total := fields.TotalTravelers.Get(); total != calculated {
			h.logger.Warn("total travelers mismatch", map[string]interface{}{
				"calculated": calculated,
				"found":      total,
			})
		}
	}

	// A star rating defaults to "hotel"; upgrade the noun when the text
	// names a more specific property type.
	if fields.Hotel.Found() && strings.HasSuffix(fields.Hotel.Get(), "-star hotel") {
		hotel := fields.Hotel.Get()
		if strings.Contains(text, "villa") {
			*fields.Hotel.Value = strings.Replace(hotel, "hotel", "villa", 1)
		} else if strings.Contains(text, "resort") {
			*fields.Hotel.Value = strings.Replace(hotel, "hotel", "resort", 1)
		}
	}

	if fields.Meals.Found() && strings.Contains(text, "indian-style") && strings.Contains(text, "dinner") {
		if !strings.Contains(strings.ToLower(fields.Meals.Get()), "indian-style") {
			*fields.Meals.Value = fields.Meals.Get() + " with Indian-style dinners"
		}
	}
}

func (h *Handler) extractStartDate(text string) models.Extraction[string] {
	for _, m := range dayMonthRe.FindAllStringSubmatch(text, -1) {
		if date, ok := h.formatDate(m[1], m[2]); ok {
			return models.Extracted(date, 0.85, methodRuleBased, "Day-month date found")
		}
	}
	if m := betweenStartRe.FindStringSubmatch(text); m != nil {
		if date, ok := h.formatDate(m[1], m[2]); ok {
			return models.Extracted(date, 0.8, methodRuleBased, "Start of a between-range")
		}
	}
	return models.NotFound[string]("No start date found")
}

func (h *Handler) extractEndDate(text string) models.Extraction[string] {
	if m := betweenEndRe.FindStringSubmatch(text); m != nil {
		if date, ok := h.formatDate(m[1], m[2]); ok {
			return models.Extracted(date, 0.85, methodRuleBased, "End of a between-range")
		}
	}
	if m := toEndRe.FindStringSubmatch(text); m != nil {
		if date, ok := h.formatDate(m[1], m[2]); ok {
			return models.Extracted(date, 0.8, methodRuleBased, "End of a from-to range")
		}
	}
	if m := takEndRe.FindStringSubmatch(text); m != nil {
		if date, ok := h.formatDate(m[1], m[2]); ok {
			return models.Extracted(date, 0.8, methodRuleBased, "End of a se-tak range")
		}
	}
	return models.NotFound[string]("No end date found")
}

func (h *Handler) formatDate(dayStr, monthStr string) (string, bool) {
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	month, ok := monthToNumber[strings.ToLower(monthStr)]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d/%02d/%d", day, month, h.config.BookingYear), true
}

func extractAdults(text string) models.Extraction[int] {
	if m := totalBreakdownRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			return models.Extracted(n, 0.95, methodRuleBased, "Adults from parenthesized breakdown")
		}
	}
	if m := adultsChildrenRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return models.Extracted(n, 0.95, methodRuleBased, "Adults from adults+children phrasing")
		}
	}
	if m := adultsOnlyRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return models.Extracted(n, 0.9, methodRuleBased, "Adults-only count")
		}
	}
	return models.NotFound[int]("No adult count found")
}

// extractChildren defaults to 0 once any traveler signal is present:
// an inquiry that names adults but no children means zero children,
// not an unknown count.
func extractChildren(text string, adults models.Extraction[int]) models.Extraction[int] {
	if m := totalBreakdownRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[3]); err == nil {
			return models.Extracted(n, 0.95, methodRuleBased, "Children from parenthesized breakdown")
		}
	}
	if m := adultsChildrenRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			return models.Extracted(n, 0.95, methodRuleBased, "Children from adults+children phrasing")
		}
	}
	if adults.Found() || totalNounRe.MatchString(text) || totalLogRe.MatchString(text) {
		return models.Extracted(0, 0.5, methodRuleBased, "No children mentioned, defaulting to 0")
	}
	return models.NotFound[int]("No traveler information found")
}

func extractTotalTravelers(text string, adults, children models.Extraction[int]) models.Extraction[int] {
	if m := totalBreakdownRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return models.Extracted(n, 0.95, methodRuleBased, "Explicit total with breakdown")
		}
	}
	if m := totalNounRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return models.Extracted(n, 0.9, methodRuleBased, "Explicit total traveler count")
		}
	}
	if m := totalLogRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return models.Extracted(n, 0.9, methodRuleBased, "Explicit total traveler count")
		}
	}
	if m := groupOfRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return models.Extracted(n, 0.75, methodRuleBased, "Group-size phrasing")
		}
	}
	if adults.Found() {
		total := adults.Get() + children.Get()
		return models.Extracted(total, 0.85, methodRuleBased, "Computed from adults and children")
	}
	return models.NotFound[int]("No traveler count found")
}

func extractDuration(text string) models.Extraction[string] {
	if m := nightsDaysRe.FindStringSubmatch(text); m != nil {
		value := fmt.Sprintf("%s nights / %s days", stripZeros(m[1]), stripZeros(m[2]))
		return models.Extracted(value, 0.95, methodRuleBased, "Explicit nights/days pair")
	}
	if m := nightsRe.FindStringSubmatch(text); m != nil {
		if nights, err := strconv.Atoi(m[1]); err == nil {
			value := fmt.Sprintf("%d nights / %d days", nights, nights+1)
			return models.Extracted(value, 0.85, methodRuleBased, "Days derived from nights")
		}
	}
	if m := daysRe.FindStringSubmatch(text); m != nil {
		if days, err := strconv.Atoi(m[1]); err == nil {
			nights := days - 1
			if nights < 0 {
				nights = 0
			}
			value := fmt.Sprintf("%d nights / %d days", nights, days)
			return models.Extracted(value, 0.85, methodRuleBased, "Nights derived from days")
		}
	}
	return models.NotFound[string]("No duration found")
}

func extractBudget(text, currency string) models.Extraction[models.Budget] {
	var candidates []models.Budget
	var confidences []float64
	var rationales []string

	for i, pattern := range budgetPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			raw := strings.ReplaceAll(m[1], ",", "")
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			amount := n * budgetMultipliers[i]
			matched := m[0]
			perPerson := perPersonRe.MatchString(matched)

			display := "₹" + formatAmount(amount)
			if perPerson {
				display += " per person"
			}

			budget := models.Budget{
				Amount:    amount,
				Currency:  currency,
				PerPerson: perPerson,
				Display:   display,
			}

			switch {
			case perPerson:
				confidences = append(confidences, 0.95)
				rationales = append(rationales, "Per person budget: "+display)
			case strings.Contains(matched, "budget"):
				confidences = append(confidences, 0.9)
				rationales = append(rationales, "Total budget: "+display)
			default:
				confidences = append(confidences, 0.8)
				rationales = append(rationales, "Amount found: "+display)
			}
			candidates = append(candidates, budget)
		}
	}

	if len(candidates) == 0 {
		return models.NotFound[models.Budget]("No budget information found")
	}

	best := 0
	for i, c := range confidences {
		if c > confidences[best] {
			best = i
		}
	}

	seen := map[string]struct{}{candidates[best].Display: {}}
	var alternatives []models.Budget
	for i, c := range candidates {
		if i == best {
			continue
		}
		if _, ok := seen[c.Display]; ok {
			continue
		}
		seen[c.Display] = struct{}{}
		alternatives = append(alternatives, c)
	}

	return models.Extracted(candidates[best], confidences[best], methodRuleBased, rationales[best], alternatives...)
}

func extractDestinations(text string) models.Extraction[[]string] {
	departures := departureCities(text)

	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	for _, dest := range destinationGazetteer {
		loc := destinationRes[dest].FindStringIndex(text)
		if loc == nil {
			continue
		}
		if _, excluded := departures[strings.ToLower(dest)]; excluded {
			continue
		}
		hits = append(hits, hit{name: dest, pos: loc[0]})
	}

	if len(hits) == 0 {
		return models.NotFound[[]string]("No known destination mentioned")
	}

	// First mention in the text comes first; ties keep gazetteer order.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.name
	}
	return models.Extracted(names, 0.9, methodRuleBased, fmt.Sprintf("%d gazetteer destinations matched", len(names)))
}

// departureCities collects cities named in departure phrasing so they
// are not mistaken for destinations.
func departureCities(text string) map[string]struct{} {
	cities := make(map[string]struct{})
	for _, pattern := range departurePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			city := strings.ToLower(strings.TrimSpace(m[1]))
			if len(city) > 2 {
				cities[city] = struct{}{}
			}
		}
	}
	return cities
}

func extractDepartureCity(text string) models.Extraction[string] {
	for _, pattern := range departurePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		city := strings.ToLower(strings.TrimSpace(m[1]))
		if len(city) <= 2 {
			continue
		}
		if _, known := indianCities[city]; known {
			return models.Extracted(titleCase(city), 0.9, methodRuleBased, "Known departure city")
		}
		if !isGazetteerDestination(city) {
			return models.Extracted(titleCase(city), 0.7, methodRuleBased, "Departure phrasing matched")
		}
	}
	return models.NotFound[string]("No departure city found")
}

var gazetteerLower = func() map[string]struct{} {
	set := make(map[string]struct{}, len(destinationGazetteer))
	for _, d := range destinationGazetteer {
		set[strings.ToLower(d)] = struct{}{}
	}
	return set
}()

func isGazetteerDestination(city string) bool {
	_, ok := gazetteerLower[city]
	return ok
}

func extractHotel(text string) models.Extraction[string] {
	for _, pattern := range hotelPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if isDigits(value) {
			value = value + "-star hotel"
		}
		return models.Extracted(value, 0.85, methodRuleBased, "Hotel preference found")
	}
	return models.NotFound[string]("No hotel preference found")
}

func extractMeals(text string) models.Extraction[string] {
	for _, pattern := range mealPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return models.Extracted(strings.TrimSpace(m[1]), 0.85, methodRuleBased, "Meal preference found")
		}
	}
	return models.NotFound[string]("No meal preference found")
}

func extractActivities(text string) models.Extraction[[]string] {
	var found []string

	for _, keyword := range activityKeywords {
		if strings.Contains(text, keyword) {
			found = append(found, titleCase(keyword))
		}
	}

	if m := includeActivitiesRe.FindStringSubmatch(text); m != nil {
		for _, item := range activitySplitRe.Split(m[1], -1) {
			item = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(item), "."))
			if len(item) > 3 {
				found = append(found, titleCase(item))
			}
		}
	}

	if m := activitiesLabelRe.FindStringSubmatch(text); m != nil {
		for _, item := range strings.Split(m[1], " and ") {
			item = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(item), "."))
			if len(item) > 3 {
				found = append(found, titleCase(item))
			}
		}
	}

	var unique []string
	seen := make(map[string]struct{})
	for _, activity := range found {
		normalized := normalizeActivity(activity)
		if len(normalized) <= 3 {
			continue
		}
		switch normalized {
		case "activities", "tour", "visit", "include":
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		unique = append(unique, activity)
	}

	if len(unique) == 0 {
		return models.NotFound[[]string]("No activities found")
	}
	return models.Extracted(unique, 0.85, methodRuleBased, fmt.Sprintf("%d activities found", len(unique)))
}

func normalizeActivity(activity string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(activity) {
		if r == ' ' || r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func extractFlightRequirement(text string) models.Extraction[bool] {
	if flightNotRequiredRe.MatchString(text) {
		return models.Extracted(false, 0.9, methodRuleBased, "Flights explicitly not required")
	}
	if flightRequiredRe.MatchString(text) {
		return models.Extracted(true, 0.9, methodRuleBased, "Flights explicitly required")
	}
	return models.NotFound[bool]("No flight requirement stated")
}

func extractSpecialRequests(text string) models.Extraction[string] {
	var requests []string
	seen := make(map[string]struct{})

	for _, pattern := range specialRequestPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			request := specialPrefixRe.ReplaceAllString(strings.TrimSpace(m[1]), "")
			request = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(request), ","))
			if len(request) <= 2 {
				continue
			}
			key := strings.ToLower(request)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			requests = append(requests, request)
		}
	}

	if len(requests) == 0 {
		return models.NotFound[string]("No special requirements found")
	}
	return models.Extracted(strings.Join(requests, "; "), 0.85, methodRuleBased,
		fmt.Sprintf("%d special requests found", len(requests)))
}

func extractDeadline(text string) models.Extraction[string] {
	for _, pattern := range deadlinePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[0])
		return models.Extracted(value, 0.85, methodRuleBased, "Response deadline found")
	}
	return models.NotFound[string]("No deadline found")
}

func extractPhone(text string) models.Extraction[string] {
	for _, pattern := range phonePatterns {
		if m := pattern.FindString(text); m != "" {
			return models.Extracted(m, 0.9, methodRuleBased, "Phone number extracted")
		}
	}
	return models.NotFound[string]("No phone number found")
}

func extractEmail(text string) models.Extraction[string] {
	if m := emailRe.FindString(text); m != "" {
		return models.Extracted(m, 0.9, methodRuleBased, "Email address extracted")
	}
	return models.NotFound[string]("No email found")
}

func formatAmount(amount int64) string {
	digits := strconv.FormatInt(amount, 10)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func stripZeros(number string) string {
	trimmed := strings.TrimLeft(number, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
