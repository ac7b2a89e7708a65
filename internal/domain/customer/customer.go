package customer

import (
	"fmt"
	"math"
	"time"
)

// approvedLimitStep is the granularity of the derived credit ceiling:
// 36x monthly income rounded to the nearest lakh.
const (
	approvedLimitStep       = 100_000.0
	approvedLimitMultiplier = 36.0
)

type Customer struct {
	CustomerID    int64     `json:"customerId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Age           int       `json:"age"`
	PhoneNumber   string    `json:"phoneNumber"`
	MonthlySalary float64   `json:"monthlySalary"`
	ApprovedLimit float64   `json:"approvedLimit"`
	CurrentDebt   float64   `json:"currentDebt"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewCustomer(firstName, lastName string, age int, phoneNumber string, monthlyIncome float64) *Customer {
	now := time.Now()
	return &Customer{
		FirstName:     firstName,
		LastName:      lastName,
		Age:           age,
		PhoneNumber:   phoneNumber,
		MonthlySalary: monthlyIncome,
		ApprovedLimit: DeriveApprovedLimit(monthlyIncome),
		CurrentDebt:   0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// DeriveApprovedLimit computes the credit ceiling assigned at registration:
// round(36 * monthlyIncome / 100000) * 100000.
func DeriveApprovedLimit(monthlyIncome float64) float64 {
	return math.Round(approvedLimitMultiplier*monthlyIncome/approvedLimitStep) * approvedLimitStep
}

func (c *Customer) FullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

// IsOverLimit reports whether accumulated debt exceeds the approved limit.
// The limit is not enforced at loan creation; over-limit customers score 0
// and are surfaced by the audit job.
func (c *Customer) IsOverLimit() bool {
	return c.CurrentDebt > c.ApprovedLimit
}

func (c *Customer) AddDebt(amount float64) {
	c.CurrentDebt += amount
	c.UpdatedAt = time.Now()
}
