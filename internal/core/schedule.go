package core

import "time"

// NextDueDate computes the next charge date for a subscription. A
// subscription that has never been posted is due on today's date.
// Otherwise the last posted date advances by one calendar month, one
// calendar year, or 30 days for an unrecognized frequency.
//
// Calendar addition follows time.AddDate normalization: Jan 31 plus one
// month lands on Mar 2 (Mar 3 in non-leap years) rather than clamping
// to the end of February.
func NextDueDate(frequency Frequency, lastPosted, today string) string {
	if lastPosted == "" {
		return today
	}
	last, err := time.Parse(DateLayout, lastPosted)
	if err != nil {
		return today
	}
	var next time.Time
	switch frequency {
	case Monthly:
		next = last.AddDate(0, 1, 0)
	case Yearly:
		next = last.AddDate(1, 0, 0)
	default:
		next = last.AddDate(0, 0, 30)
	}
	return next.Format(DateLayout)
}
