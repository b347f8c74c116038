package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAccountNumber(t *testing.T) {
	assert.NoError(t, ValidateAccountNumber("1234567890"))
	assert.NoError(t, ValidateAccountNumber("  123456  "))

	assert.Error(t, ValidateAccountNumber(""))
	assert.Error(t, ValidateAccountNumber("12345"))
	assert.Error(t, ValidateAccountNumber(strings.Repeat("1", 33)))
	assert.Error(t, ValidateAccountNumber("12345abc90"))
	assert.Error(t, ValidateAccountNumber("1234-5678"))
}

func TestValidateBankCode(t *testing.T) {
	assert.NoError(t, ValidateBankCode("BCA"))
	assert.NoError(t, ValidateBankCode("bank_mandiri-01"))

	assert.Error(t, ValidateBankCode(""))
	assert.Error(t, ValidateBankCode("not a code"))
	assert.Error(t, ValidateBankCode(strings.Repeat("B", 21)))
}

func TestValidateHolderName(t *testing.T) {
	assert.NoError(t, ValidateHolderName("Jane Organizer"))

	assert.Error(t, ValidateHolderName(""))
	assert.Error(t, ValidateHolderName("Jo"))
	assert.Error(t, ValidateHolderName(strings.Repeat("a", 101)))
}

func TestValidateNotes(t *testing.T) {
	assert.NoError(t, ValidateNotes(nil))

	empty := ""
	assert.NoError(t, ValidateNotes(&empty))

	ok := "monthly payout"
	assert.NoError(t, ValidateNotes(&ok))

	long := strings.Repeat("x", 501)
	assert.Error(t, ValidateNotes(&long))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("jane@example.com"))
	assert.NoError(t, ValidateEmail("Jane.Doe+tag@sub.example.org"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("two@@example.com"))
	assert.Error(t, ValidateEmail("jane@nodot"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Sup3rSecret"))

	assert.Error(t, ValidatePassword("short1A"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE1"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
}
