package dto

import (
	"fmt"
	"strconv"

	"credit-engine/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type EligibilityRequest struct {
	CustomerID   int64   `json:"customerId"`
	LoanAmount   float64 `json:"loanAmount"`
	InterestRate float64 `json:"interestRate"`
	TenureMonths int     `json:"tenure"`
}

func (r *EligibilityRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customerId must be positive")
	}
	if r.LoanAmount <= 0 {
		return fmt.Errorf("loanAmount must be greater than zero")
	}
	if r.InterestRate < 0 {
		return fmt.Errorf("interestRate cannot be negative")
	}
	if r.TenureMonths <= 0 {
		return fmt.Errorf("tenure must be positive")
	}
	return nil
}

type EligibilityResponse struct {
	CustomerID            string `json:"customerId"`
	Approval              bool   `json:"approval"`
	InterestRate          string `json:"interestRate"`
	CorrectedInterestRate string `json:"correctedInterestRate"`
	TenureMonths          int    `json:"tenure"`
	MonthlyInstallment    string `json:"monthlyInstallment"`
	Message               string `json:"message,omitempty"`
}

type CreateLoanResponse struct {
	LoanID             *string `json:"loanId"`
	CustomerID         string  `json:"customerId"`
	LoanApproved       bool    `json:"loanApproved"`
	Message            string  `json:"message"`
	MonthlyInstallment string  `json:"monthlyInstallment"`
}

type CustomerSummary struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Age         int    `json:"age"`
}

type ViewLoanResponse struct {
	LoanID             string          `json:"loanId"`
	Customer           CustomerSummary `json:"customer"`
	LoanAmount         string          `json:"loanAmount"`
	InterestRate       string          `json:"interestRate"`
	MonthlyInstallment string          `json:"monthlyInstallment"`
	TenureMonths       int             `json:"tenure"`
	StartDate          string          `json:"startDate"`
	EndDate            string          `json:"endDate"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatRate(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func NewEligibilityResponse(d *loan.Decision) EligibilityResponse {
	resp := EligibilityResponse{
		CustomerID:            strconv.FormatInt(d.CustomerID, 10),
		Approval:              d.Approved,
		InterestRate:          formatRate(d.InterestRate),
		CorrectedInterestRate: formatRate(d.CorrectedInterestRate),
		TenureMonths:          d.TenureMonths,
		MonthlyInstallment:    formatMoney(d.MonthlyInstallment),
	}
	if !d.Approved {
		resp.Message = d.Message
	}
	return resp
}

func NewCreateLoanResponse(d *loan.Decision) CreateLoanResponse {
	var loanIDStr *string
	if d.LoanID != nil {
		s := strconv.FormatInt(*d.LoanID, 10)
		loanIDStr = &s
	}

	return CreateLoanResponse{
		LoanID:             loanIDStr,
		CustomerID:         strconv.FormatInt(d.CustomerID, 10),
		LoanApproved:       d.Approved,
		Message:            d.Message,
		MonthlyInstallment: formatMoney(d.MonthlyInstallment),
	}
}

func NewViewLoanResponse(l *loan.Loan, summary CustomerSummary) ViewLoanResponse {
	return ViewLoanResponse{
		LoanID:             strconv.FormatInt(l.ID, 10),
		Customer:           summary,
		LoanAmount:         formatMoney(l.LoanAmount),
		InterestRate:       formatRate(l.InterestRate),
		MonthlyInstallment: formatMoney(l.MonthlyRepayment),
		TenureMonths:       l.TenureMonths,
		StartDate:          l.StartDate.Format("2006-01-02"),
		EndDate:            l.EndDate.Format("2006-01-02"),
	}
}
