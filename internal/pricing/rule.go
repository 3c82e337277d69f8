package pricing

import "time"

// Rule names the surcharge to apply and decides on which dates it applies.
type Rule struct {
	// SurchargeName is looked up in the catalog case-insensitively.
	SurchargeName string
	AppliesOn     func(date time.Time) bool
}

// IsWeekend reports whether date is a Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WeekendRule applies the named surcharge on Saturdays and Sundays.
func WeekendRule(surchargeName string) Rule {
	return Rule{SurchargeName: surchargeName, AppliesOn: IsWeekend}
}
