package errors

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrorDump is the loggable flattening of an error chain. Postgres driver
// errors found anywhere in the chain surface their diagnostic fields so a
// constraint violation is identifiable without raising the log level.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGColumn     string `json:"pg_column,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGMessage    string `json:"pg_message,omitempty"`
}

// Dump walks the chain from the outermost error inward.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	dump := ErrorDump{TopMessage: err.Error()}
	if typed := As(err); typed != nil {
		dump.Code = typed.Code()
	}
	for link := err; link != nil; link = errors.Unwrap(link) {
		dump.Chain = append(dump.Chain, fmt.Sprintf("%T: %v", link, link))
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		dump.PGCode = string(pgErr.Code)
		dump.PGConstraint = pgErr.Constraint
		dump.PGTable = pgErr.Table
		dump.PGColumn = pgErr.Column
		dump.PGDetail = pgErr.Detail
		dump.PGMessage = pgErr.Message
	}
	return dump
}
