package service

import (
	"regexp"
	"unicode"

	"github.com/apetrov/linechat/internal/common/constants"
	commonerrors "github.com/apetrov/linechat/internal/common/errors"
)

var loginRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateCredentials(login, password string) error {
	if len(login) < constants.LoginMinLength || len(login) > constants.LoginMaxLength {
		return commonerrors.ErrValidationLoginLength
	}

	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return commonerrors.ErrValidationPasswordLength
	}

	if !isValidLogin(login) {
		return commonerrors.ErrValidationLoginChars
	}

	return nil
}

func isValidLogin(value string) bool {
	if !loginRegex.MatchString(value) {
		return false
	}

	if !unicode.IsLetter(rune(value[0])) && !unicode.IsDigit(rune(value[0])) {
		return false
	}

	if !unicode.IsLetter(rune(value[len(value)-1])) && !unicode.IsDigit(rune(value[len(value)-1])) {
		return false
	}

	return true
}
