package services

import (
	"strings"

	"github.com/google/uuid"
)

const accountNumberPrefix = "ACCT-"

// newUUID is swapped in tests for deterministic account numbers.
var newUUID = uuid.NewString

// GenerateAccountNumber returns a new customer account number of the form
// ACCT-xxxxxxxx, built from the first 8 characters of a random UUID.
func GenerateAccountNumber() string {
	return formatAccountNumber(newUUID())
}

func formatAccountNumber(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return accountNumberPrefix + id
}
