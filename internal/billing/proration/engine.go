package proration

import (
	"time"

	"github.com/google/uuid"
)

// Charge is the in-memory view of a charge record (invoice or payment)
// during an allocation pass. AdjustedBani starts at the persisted value and
// only shrinks; Applied records the credits consumed by this charge.
type Charge struct {
	ID           uuid.UUID
	BaseBani     int64
	AdjustedBani int64
	Applied      []AppliedCredit
}

// AppliedCredit links a consumed absence period to the amount it was worth.
type AppliedCredit struct {
	PeriodID   uuid.UUID
	Start      time.Time
	End        time.Time
	AmountBani int64
}

// Period is the in-memory view of an absence period. Start and End are local
// calendar dates, inclusive on both ends.
type Period struct {
	ID           uuid.UUID
	Start        time.Time
	End          time.Time
	Consumed     bool
	ConsumedBani int64
}

// Allocate applies absence credits to charges, mutating both slices in place.
//
// Charges are processed in the caller-supplied order; no reordering, no
// best-fit. Before each charge the pool of available periods is recomputed
// from the current consumed flags, so a period spent on an earlier charge in
// the same pass is unavailable to later ones. Each period is applied to at
// most one charge; a credit only applies while it is strictly smaller than
// the charge's remaining amount, and the remaining amount never goes
// negative. Allocate never fails.
func Allocate(charges []*Charge, periods []*Period, dailyRateBani int64) {
	for _, charge := range charges {
		if charge == nil {
			continue
		}
		for _, period := range available(periods) {
			credit := CreditFor(*period, dailyRateBani)
			if !creditFitsStrictly(credit, charge.AdjustedBani) {
				continue
			}
			charge.AdjustedBani -= credit
			charge.Applied = append(charge.Applied, AppliedCredit{
				PeriodID:   period.ID,
				Start:      period.Start,
				End:        period.End,
				AmountBani: credit,
			})
			period.Consumed = true
			period.ConsumedBani = credit
		}
	}
}

// available re-filters the unconsumed periods, preserving their order.
func available(periods []*Period) []*Period {
	pool := make([]*Period, 0, len(periods))
	for _, period := range periods {
		if period == nil || period.Consumed {
			continue
		}
		pool = append(pool, period)
	}
	return pool
}
