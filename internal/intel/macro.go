package intel

import (
	"sort"
	"time"

	"remitiq/internal/domain"
)

const macroLookahead = 45 * 24 * time.Hour

// UpcomingMacroEvents builds the calendar context for the intelligence
// payload: central-bank meeting dates and the seasonal remittance window,
// within the next 45 days. Informational only; nothing downstream scores
// on these.
func UpcomingMacroEvents(now time.Time) []domain.MacroEvent {
	var events []domain.MacroEvent

	// RBA board meets on the first Tuesday of the month, January excepted.
	for _, m := range []time.Month{
		time.February, time.March, time.April, time.May, time.June,
		time.August, time.September, time.October, time.November, time.December,
	} {
		d := firstWeekday(now.Year(), m, time.Tuesday, now.Location())
		if d.After(now) && d.Sub(now) < macroLookahead {
			events = append(events, domain.MacroEvent{
				Date:        d,
				Event:       "RBA Interest Rate Decision",
				Impact:      domain.ImpactNeutral,
				Description: "Reserve Bank of Australia monetary policy meeting. Rate decisions directly impact AUD/INR.",
			})
		}
	}

	// RBI policy reviews run bi-monthly.
	for _, m := range []time.Month{
		time.February, time.April, time.June, time.August, time.October, time.December,
	} {
		d := time.Date(now.Year(), m, 6, 0, 0, 0, 0, now.Location())
		if d.After(now) && d.Sub(now) < macroLookahead {
			events = append(events, domain.MacroEvent{
				Date:        d,
				Event:       "RBI Monetary Policy",
				Impact:      domain.ImpactNeutral,
				Description: "Reserve Bank of India policy review. INR strength depends on rate decisions.",
			})
		}
	}

	// Diwali remittance season, surfaced from September through November.
	if now.Month() >= time.September && now.Month() <= time.November {
		events = append(events, domain.MacroEvent{
			Date:        time.Date(now.Year(), time.October, 15, 0, 0, 0, 0, now.Location()),
			Event:       "Diwali Season",
			Impact:      domain.ImpactPositive,
			Description: "High remittance season — increased demand typically supports better AUD conversion.",
		})
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	if len(events) > 5 {
		events = events[:5]
	}
	return events
}

func firstWeekday(year int, month time.Month, day time.Weekday, loc *time.Location) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
