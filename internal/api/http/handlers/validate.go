package handlers

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func validUserID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
