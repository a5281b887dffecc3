// README: French itinerary speech synthesis.
package trip

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"railbot/internal/trainline"
)

const (
	transportTrain  = "train"
	flexibilityNone = "nonflexi"
	classEconomy    = "economy"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var frenchWeekdays = map[time.Weekday]string{
	time.Sunday:    "dimanche",
	time.Monday:    "lundi",
	time.Tuesday:   "mardi",
	time.Wednesday: "mercredi",
	time.Thursday:  "jeudi",
	time.Friday:    "vendredi",
	time.Saturday:  "samedi",
}

// frenchDate renders t as "samedi 14 juillet 2018". The first of the month
// takes the ordinal form ("1er"), every other day is the plain number.
func frenchDate(t time.Time) string {
	day := strconv.Itoa(t.Day())
	if t.Day() == 1 {
		day = "1er"
	}
	return fmt.Sprintf("%s %s %s %d", frenchWeekdays[t.Weekday()], day, frenchMonths[t.Month()-1], t.Year())
}

// parseDate accepts the date shapes the platform sends for date slots.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// formatItineraries renders the header and retained rows for one leg. Only
// train segments with a non-flexible fare are speech-worthy; buses and
// flexible fares are dropped. Rows keep their original order. An empty
// result still yields the header line.
func formatItineraries(c Criteria, options []trainline.Option, isReturn bool) string {
	legLabel, origin, destination, date := "Aller", c.Origin, c.Destination, c.DepartureDate
	if isReturn {
		legLabel, origin, destination, date = "Retour", c.Destination, c.Origin, c.ReturnDate
	}

	dateStr := date
	if t, err := parseDate(date); err == nil {
		dateStr = frenchDate(t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Trajet %s : %s -> %s, le %s", legLabel, origin, destination, dateStr)

	for _, opt := range options {
		if opt.Mean != transportTrain || opt.Flexibility != flexibilityNone {
			continue
		}
		class := "1ère classe"
		if opt.TravelClass == classEconomy {
			class = "2ème classe"
		}
		fmt.Fprintf(&b, "\n%s -> %s pour %s€ en %s",
			opt.Departure.Format("15:04"),
			opt.Arrival.Format("15:04"),
			formatPrice(opt.Cents),
			class,
		)
	}
	return b.String()
}

// formatPrice renders minor units as major units, trimming insignificant
// zeros: 4250 renders as "42.5", 4200 as "42".
func formatPrice(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', -1, 64)
}
