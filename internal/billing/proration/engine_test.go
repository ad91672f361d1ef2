package proration

import (
	"testing"

	"github.com/google/uuid"
)

func newCharge(base int64) *Charge {
	return &Charge{ID: uuid.New(), BaseBani: base, AdjustedBani: base}
}

func newPeriod(start, end string) *Period {
	return &Period{ID: uuid.New(), Start: day(start), End: day(end)}
}

// Two periods worth 100 and 50 against charges of 120 and 200 at a daily
// rate of 50. The first period fits the first charge (100 < 120) leaving 20;
// the second period no longer fits (50 >= 20) and rolls to the second charge.
func TestAllocateSequentialRollover(t *testing.T) {
	c1 := newCharge(120)
	c2 := newCharge(200)
	p1 := newPeriod("2026-03-02", "2026-03-03") // Mon-Tue, credit 100
	p2 := newPeriod("2026-03-04", "2026-03-04") // Wed, credit 50

	Allocate([]*Charge{c1, c2}, []*Period{p1, p2}, 50)

	if c1.AdjustedBani != 20 {
		t.Fatalf("first charge: expected 20 remaining, got %d", c1.AdjustedBani)
	}
	if c2.AdjustedBani != 150 {
		t.Fatalf("second charge: expected 150 remaining, got %d", c2.AdjustedBani)
	}
	if len(c1.Applied) != 1 || c1.Applied[0].PeriodID != p1.ID {
		t.Fatalf("first period should be applied to the first charge: %+v", c1.Applied)
	}
	if len(c2.Applied) != 1 || c2.Applied[0].PeriodID != p2.ID {
		t.Fatalf("second period should roll over to the second charge: %+v", c2.Applied)
	}
	if !p1.Consumed || p1.ConsumedBani != 100 {
		t.Fatalf("p1 consumption: consumed=%v bani=%d", p1.Consumed, p1.ConsumedBani)
	}
	if !p2.Consumed || p2.ConsumedBani != 50 {
		t.Fatalf("p2 consumption: consumed=%v bani=%d", p2.Consumed, p2.ConsumedBani)
	}
}

func TestAllocateFullWeekCredit(t *testing.T) {
	charge := newCharge(1000)
	period := newPeriod("2026-03-02", "2026-03-06") // Mon-Fri, credit 250

	Allocate([]*Charge{charge}, []*Period{period}, 50)

	if charge.AdjustedBani != 750 {
		t.Fatalf("expected 750 remaining, got %d", charge.AdjustedBani)
	}
	if len(charge.Applied) != 1 || charge.Applied[0].AmountBani != 250 {
		t.Fatalf("expected a single 250 credit, got %+v", charge.Applied)
	}
}

// A credit exactly equal to the remaining amount is never applied; the
// remaining amount must stay strictly positive after each application.
func TestAllocateRejectsExactFit(t *testing.T) {
	charge := newCharge(100)
	period := newPeriod("2026-03-02", "2026-03-03") // credit 100

	Allocate([]*Charge{charge}, []*Period{period}, 50)

	if charge.AdjustedBani != 100 {
		t.Fatalf("exact-fit credit must not apply, got %d", charge.AdjustedBani)
	}
	if period.Consumed {
		t.Fatal("rejected period must stay available")
	}
	if len(charge.Applied) != 0 {
		t.Fatalf("no credits expected, got %+v", charge.Applied)
	}
}

// Weekend-only periods carry a zero credit but are still consumed, leaving
// the charge untouched.
func TestAllocateConsumesZeroCreditPeriod(t *testing.T) {
	charge := newCharge(300)
	weekend := newPeriod("2026-03-07", "2026-03-08")

	Allocate([]*Charge{charge}, []*Period{weekend}, 50)

	if charge.AdjustedBani != 300 {
		t.Fatalf("zero credit must leave the charge at 300, got %d", charge.AdjustedBani)
	}
	if !weekend.Consumed || weekend.ConsumedBani != 0 {
		t.Fatalf("weekend period must be consumed at 0: consumed=%v bani=%d", weekend.Consumed, weekend.ConsumedBani)
	}
	if len(charge.Applied) != 1 || charge.Applied[0].AmountBani != 0 {
		t.Fatalf("zero credit still recorded against the charge, got %+v", charge.Applied)
	}
}

// A period spent on an earlier charge in the same pass must never be
// applied again.
func TestAllocateNoDoubleSpend(t *testing.T) {
	c1 := newCharge(200)
	c2 := newCharge(200)
	period := newPeriod("2026-03-02", "2026-03-03") // credit 100

	Allocate([]*Charge{c1, c2}, []*Period{period}, 50)

	if c1.AdjustedBani != 100 {
		t.Fatalf("first charge: expected 100, got %d", c1.AdjustedBani)
	}
	if c2.AdjustedBani != 200 {
		t.Fatalf("second charge must be untouched, got %d", c2.AdjustedBani)
	}
	if len(c2.Applied) != 0 {
		t.Fatalf("spent period reapplied: %+v", c2.Applied)
	}
}

func TestAllocateMultiplePeriodsSameCharge(t *testing.T) {
	charge := newCharge(500)
	p1 := newPeriod("2026-03-02", "2026-03-03") // credit 100
	p2 := newPeriod("2026-03-04", "2026-03-05") // credit 100
	p3 := newPeriod("2026-03-06", "2026-03-06") // credit 50

	Allocate([]*Charge{charge}, []*Period{p1, p2, p3}, 50)

	if charge.AdjustedBani != 250 {
		t.Fatalf("expected 250 remaining after three credits, got %d", charge.AdjustedBani)
	}
	if len(charge.Applied) != 3 {
		t.Fatalf("expected three applied credits, got %d", len(charge.Applied))
	}
	for _, p := range []*Period{p1, p2, p3} {
		if !p.Consumed {
			t.Fatalf("period %s not consumed", p.ID)
		}
	}
}

// Order is load-bearing: the same inputs in a different charge order produce
// a different allocation.
func TestAllocateOrderSensitivity(t *testing.T) {
	run := func(first, second int64) (int64, int64) {
		a := newCharge(first)
		b := newCharge(second)
		p := newPeriod("2026-03-02", "2026-03-03") // credit 100
		Allocate([]*Charge{a, b}, []*Period{p}, 50)
		return a.AdjustedBani, b.AdjustedBani
	}

	a1, b1 := run(120, 300)
	if a1 != 20 || b1 != 300 {
		t.Fatalf("forward order: got %d/%d", a1, b1)
	}
	a2, b2 := run(300, 120)
	if a2 != 200 || b2 != 120 {
		t.Fatalf("reversed order: got %d/%d", a2, b2)
	}
}

func TestAllocateBoundsInvariant(t *testing.T) {
	charges := []*Charge{newCharge(75), newCharge(130), newCharge(1)}
	periods := []*Period{
		newPeriod("2026-03-02", "2026-03-03"),
		newPeriod("2026-03-04", "2026-03-04"),
		newPeriod("2026-03-07", "2026-03-08"),
	}

	Allocate(charges, periods, 50)

	for i, c := range charges {
		if c.AdjustedBani < 0 || c.AdjustedBani > c.BaseBani {
			t.Fatalf("charge %d out of bounds: adjusted=%d base=%d", i, c.AdjustedBani, c.BaseBani)
		}
	}
}

func TestAllocateToleratesNilEntries(t *testing.T) {
	charge := newCharge(200)
	period := newPeriod("2026-03-02", "2026-03-03")

	Allocate([]*Charge{nil, charge}, []*Period{nil, period}, 50)

	if charge.AdjustedBani != 100 {
		t.Fatalf("expected 100 remaining, got %d", charge.AdjustedBani)
	}
}
