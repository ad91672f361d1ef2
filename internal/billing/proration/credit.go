package proration

// CreditFor converts an absence period into a monetary credit: the child's
// per-day rate times the number of business days in the period. It has no
// side effects and never marks the period consumed.
func CreditFor(period Period, dailyRateBani int64) int64 {
	return dailyRateBani * int64(CountWeekdays(period.Start, period.End))
}

// creditFitsStrictly is the eligibility rule for applying a credit to a
// charge's remaining amount. The strict less-than means a credit exactly
// equal to the remaining amount is rejected and the period stays available
// for a later charge; the redundant non-negative check is part of the
// contract and kept for edge-case parity.
func creditFitsStrictly(credit, remaining int64) bool {
	return credit < remaining && remaining-credit >= 0
}
