package usecase

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const upperAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomInt returns a uniform integer in [0, n)
func randomInt(n int64) (int64, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

// generateCode returns a uniform 6-digit code in 100000-999999
func generateCode() (string, error) {
	v, err := randomInt(900000)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", v+100000), nil
}

// generateDoctorID returns "DOC-" followed by 8 upper-case alphanumerics
func generateDoctorID() (string, error) {
	var sb strings.Builder
	sb.WriteString("DOC-")
	for i := 0; i < 8; i++ {
		idx, err := randomInt(int64(len(upperAlphanumeric)))
		if err != nil {
			return "", fmt.Errorf("generate doctor id: %w", err)
		}
		sb.WriteByte(upperAlphanumeric[idx])
	}
	return sb.String(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizePhone drops the separators the phone rule allows, keeping digits
// and a leading '+', so one number has one stored form
func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var sb strings.Builder
	for i, r := range phone {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// localPart returns the part of email before '@'
func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// displayNameFromEmail capitalises the first letter of the local part
func displayNameFromEmail(email string) string {
	local := localPart(email)
	if local == "" {
		return local
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

// lowerOrAll lower-cases a filter value; "all" and blanks mean no filter
func lowerOrAll(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "all" {
		return ""
	}
	return value
}
