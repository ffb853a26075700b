package identity

import (
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/marketplace/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

// UserType is the role tag of an account
type UserType string

const (
	UserTypeShop  UserType = "shop"
	UserTypeBuyer UserType = "buyer"
)

// IsValid checks if the user type is valid
func (t UserType) IsValid() bool {
	return t == UserTypeShop || t == UserTypeBuyer
}

// String returns the string representation
func (t UserType) String() string {
	return string(t)
}

// BcryptCost is the work factor used for password hashes
var BcryptCost = 12

// Column widths of the users table
const (
	maxNameLength     = 150
	maxCompanyLength  = 40
	maxPositionLength = 40
	maxEmailLength    = 254
)

// User is a marketplace account. New accounts are inactive until the
// email address is confirmed.
type User struct {
	shared.BaseAggregateRoot
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Company      string
	Position     string
	Type         UserType
	IsActive     bool
}

// Profile holds the editable personal fields of a user
type Profile struct {
	FirstName string
	LastName  string
	Company   string
	Position  string
}

// NewUser creates an inactive account. The password must already have
// passed the password policy.
func NewUser(email, password string, profile Profile, userType UserType) (*User, error) {
	if userType == "" {
		userType = UserTypeBuyer
	}
	if !userType.IsValid() {
		return nil, shared.NewValidationError("type", "Значение '"+string(userType)+"' не является верным выбором.")
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             normalized,
		Type:              userType,
		IsActive:          false,
	}
	if err := u.UpdateProfile(profile); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// NormalizeEmail applies NFKC normalization and lowercases the domain part
func NormalizeEmail(email string) (string, error) {
	email = norm.NFKC.String(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewValidationError("email", "Обязательное поле.")
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return "", shared.NewValidationError("email", "Введите правильный адрес электронной почты.")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", shared.NewValidationError("email", "Введите правильный адрес электронной почты.")
	}
	at := strings.LastIndex(email, "@")
	return email[:at] + "@" + strings.ToLower(email[at+1:]), nil
}

// UpdateProfile replaces the personal fields
func (u *User) UpdateProfile(p Profile) error {
	verr := &shared.ValidationError{}
	checkLength(verr, "first_name", p.FirstName, maxNameLength)
	checkLength(verr, "last_name", p.LastName, maxNameLength)
	checkLength(verr, "company", p.Company, maxCompanyLength)
	checkLength(verr, "position", p.Position, maxPositionLength)
	if verr.HasErrors() {
		return verr
	}
	u.FirstName = p.FirstName
	u.LastName = p.LastName
	u.Company = p.Company
	u.Position = p.Position
	u.UpdatedAt = time.Now()
	return nil
}

// ChangeEmail sets a new normalized email address
func (u *User) ChangeEmail(email string) error {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	u.Email = normalized
	u.UpdatedAt = time.Now()
	return nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Activate marks the email address as confirmed
func (u *User) Activate() {
	u.IsActive = true
	u.UpdatedAt = time.Now()
}

// IsShop reports whether the account represents a seller
func (u *User) IsShop() bool {
	return u.Type == UserTypeShop
}

// Attributes returns the values the password similarity check compares against
func (u *User) Attributes() []UserAttribute {
	return []UserAttribute{
		{Label: "адрес электронной почты", Value: u.Email},
		{Label: "имя", Value: u.FirstName},
		{Label: "фамилия", Value: u.LastName},
	}
}

func checkLength(verr *shared.ValidationError, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		verr.Add(field, "Убедитесь, что это значение содержит не более "+strconv.Itoa(max)+" символов.")
	}
}
