package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation constants
const (
	MinAccountNumberLength = 6
	MaxAccountNumberLength = 32
	MinHolderNameLength    = 3
	MaxHolderNameLength    = 100
	MaxBankCodeLength      = 20
	MaxNotesLength         = 500
)

var (
	accountNumberRegex = regexp.MustCompile(`^[0-9]+$`)
	bankCodeRegex      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidateLength checks a string length in runes.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateEmail checks the email format.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("email local part must be between 1 and 64 characters")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("email domain must be between 1 and 255 characters")
	}
	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("email domain must contain a dot")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("email local part contains invalid characters")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("email domain has an invalid format")
	}

	return nil
}

// ValidateNonEmpty checks that a string is not blank.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateAccountNumber checks a bank account number: digits only, within
// the length bounds.
func ValidateAccountNumber(accountNumber string) error {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return fmt.Errorf("account number is required")
	}
	if err := ValidateLength("account number", accountNumber, MinAccountNumberLength, MaxAccountNumberLength); err != nil {
		return err
	}
	if !accountNumberRegex.MatchString(accountNumber) {
		return fmt.Errorf("account number may contain digits only")
	}
	return nil
}

// ValidateBankCode checks a bank code identifier.
func ValidateBankCode(bankCode string) error {
	bankCode = strings.TrimSpace(bankCode)
	if bankCode == "" {
		return fmt.Errorf("bank code is required")
	}
	if err := ValidateLength("bank code", bankCode, 1, MaxBankCodeLength); err != nil {
		return err
	}
	if !bankCodeRegex.MatchString(bankCode) {
		return fmt.Errorf("bank code contains invalid characters")
	}
	return nil
}

// ValidateHolderName checks an account holder name.
func ValidateHolderName(holderName string) error {
	holderName = strings.TrimSpace(holderName)
	if holderName == "" {
		return fmt.Errorf("account holder name is required")
	}
	return ValidateLength("account holder name", holderName, MinHolderNameLength, MaxHolderNameLength)
}

// ValidateNotes checks optional free-form notes.
func ValidateNotes(notes *string) error {
	if notes != nil && *notes != "" {
		return ValidateLength("notes", strings.TrimSpace(*notes), 0, MaxNotesLength)
	}
	return nil
}
