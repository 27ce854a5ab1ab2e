package client

import (
	"regexp"
	"strings"
	"time"

	"github.com/microcredit/backend/internal/domain/shared"
)

// Status represents the status of a client
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// IsValid checks if the status is a valid client Status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

var documentNumberPattern = regexp.MustCompile(`^[0-9]{7,9}$`)

// Client represents a registered borrower.
// It is the aggregate root for client-related operations.
type Client struct {
	shared.BaseAggregateRoot
	Code           string `gorm:"type:varchar(50);not null;uniqueIndex"`
	FirstName      string `gorm:"type:varchar(100);not null"`
	LastName       string `gorm:"type:varchar(100);not null"`
	DocumentNumber string `gorm:"type:varchar(20);index"`
	Phone          string `gorm:"type:varchar(50);index"`
	Email          string `gorm:"type:varchar(200);index"`
	Address        string `gorm:"type:text"`
	Status         Status `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	Notes          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client with required fields
func NewClient(code, firstName, lastName string) (*Client, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(firstName, "First name"); err != nil {
		return nil, err
	}
	if err := validateName(lastName, "Last name"); err != nil {
		return nil, err
	}

	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		FirstName:         firstName,
		LastName:          lastName,
		Status:            StatusActive,
	}, nil
}

// FullName returns the client's display name
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Update updates the client's basic information
func (c *Client) Update(firstName, lastName string) error {
	if err := validateName(firstName, "First name"); err != nil {
		return err
	}
	if err := validateName(lastName, "Last name"); err != nil {
		return err
	}

	c.FirstName = firstName
	c.LastName = lastName
	c.touch()
	return nil
}

// SetContact sets contact information
func (c *Client) SetContact(phone, email, address string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}

	c.Phone = phone
	c.Email = email
	c.Address = address
	c.touch()
	return nil
}

// SetDocumentNumber sets the national document number (DNI)
func (c *Client) SetDocumentNumber(dni string) error {
	if dni != "" && !documentNumberPattern.MatchString(dni) {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document number must be 7 to 9 digits")
	}
	c.DocumentNumber = dni
	c.touch()
	return nil
}

// SetNotes sets free-text notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.touch()
}

// Activate marks the client as active
func (c *Client) Activate() {
	if c.Status == StatusActive {
		return
	}
	c.Status = StatusActive
	c.touch()
}

// Deactivate marks the client as inactive
func (c *Client) Deactivate() {
	if c.Status == StatusInactive {
		return
	}
	c.Status = StatusInactive
	c.touch()
}

// IsActive returns true if the client can receive new loans
func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}

func (c *Client) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Client code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Client code cannot exceed 50 characters")
	}
	return nil
}

func validateName(name, label string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", label+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", label+" cannot exceed 100 characters")
	}
	return nil
}
