package enums

import "fmt"

// ChargeKind distinguishes the two structurally identical charge records.
type ChargeKind string

const (
	ChargeKindInvoice ChargeKind = "invoice"
	ChargeKindPayment ChargeKind = "payment"
)

var validChargeKinds = []ChargeKind{
	ChargeKindInvoice,
	ChargeKindPayment,
}

// IsValid reports whether the value matches the canonical charge kind enum.
func (c ChargeKind) IsValid() bool {
	for _, candidate := range validChargeKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChargeKind converts the raw string to ChargeKind.
func ParseChargeKind(value string) (ChargeKind, error) {
	for _, candidate := range validChargeKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid charge kind %q", value)
}
