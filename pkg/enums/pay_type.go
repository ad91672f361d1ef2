package enums

import "fmt"

// PayType tags how a charge record is expected to be settled.
type PayType string

const (
	PayTypeBankTransfer PayType = "bank_transfer"
	PayTypeCash         PayType = "cash"
	PayTypeCard         PayType = "card"
)

var validPayTypes = []PayType{
	PayTypeBankTransfer,
	PayTypeCash,
	PayTypeCard,
}

// IsValid reports whether the value matches the canonical pay type enum.
func (p PayType) IsValid() bool {
	for _, candidate := range validPayTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePayType converts the raw string to PayType.
func ParsePayType(value string) (PayType, error) {
	for _, candidate := range validPayTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pay type %q", value)
}
