package identity

import (
	"bufio"
	_ "embed"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/marketplace/backend/internal/domain/shared"
	"golang.org/x/text/cases"
)

//go:embed common_passwords.txt
var commonPasswordsData string

var (
	commonPasswordsOnce sync.Once
	commonPasswords     map[string]struct{}
)

func loadCommonPasswords() map[string]struct{} {
	commonPasswordsOnce.Do(func() {
		commonPasswords = make(map[string]struct{})
		sc := bufio.NewScanner(strings.NewReader(commonPasswordsData))
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				commonPasswords[strings.ToLower(line)] = struct{}{}
			}
		}
	})
	return commonPasswords
}

var nonWord = regexp.MustCompile(`\W+`)

// UserAttribute is a labelled account value a password must not resemble
type UserAttribute struct {
	Label string
	Value string
}

// PasswordPolicy validates new passwords
type PasswordPolicy struct {
	MinLength     int
	MaxSimilarity float64
}

// DefaultPasswordPolicy returns the policy applied to all accounts
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8, MaxSimilarity: 0.7}
}

// Validate runs every check and collects the failures under the
// "password" field. It returns nil when the password is acceptable.
func (p PasswordPolicy) Validate(password string, attrs []UserAttribute) error {
	verr := &shared.ValidationError{}
	if label, ok := p.similarTo(password, attrs); ok {
		verr.Add("password", "Введённый пароль слишком похож на "+label+".")
	}
	if utf8.RuneCountInString(password) < p.MinLength {
		verr.Add("password", "Введённый пароль слишком короткий. Он должен содержать как минимум "+
			strconv.Itoa(p.MinLength)+" символов.")
	}
	if _, ok := loadCommonPasswords()[strings.ToLower(strings.TrimSpace(password))]; ok {
		verr.Add("password", "Введённый пароль слишком широко распространён.")
	}
	if isNumeric(password) {
		verr.Add("password", "Введённый пароль состоит только из цифр.")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (p PasswordPolicy) similarTo(password string, attrs []UserAttribute) (string, bool) {
	fold := cases.Fold()
	pw := fold.String(password)
	for _, attr := range attrs {
		if attr.Value == "" {
			continue
		}
		value := fold.String(attr.Value)
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			if exceedsLengthRatio(pw, p.MaxSimilarity, part) {
				continue
			}
			if quickRatio(pw, part) >= p.MaxSimilarity {
				return attr.Label, true
			}
		}
	}
	return "", false
}

// exceedsLengthRatio skips attribute parts so short relative to the
// password that they cannot make it guessable.
func exceedsLengthRatio(password string, maxSimilarity float64, value string) bool {
	pwdLen := utf8.RuneCountInString(password)
	valueLen := utf8.RuneCountInString(value)
	bound := maxSimilarity / 2 * float64(pwdLen)
	return pwdLen >= 10*valueLen && float64(valueLen) < bound
}

// quickRatio is an upper bound on the similarity ratio of two strings:
// twice the size of their character multiset intersection over the
// total length.
func quickRatio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	avail := make(map[rune]int)
	for _, r := range b {
		avail[r]++
	}
	matches := 0
	for _, r := range a {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
