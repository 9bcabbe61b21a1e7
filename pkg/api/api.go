// Package api defines the request and response messages of the apex.v1
// services. Handlers and clients live in package apiconnect.
package api

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ErrorKindHeader carries the apperr kind on every error response.
const ErrorKindHeader = "Error-Kind"

// Amount is a money value rendered as a JSON number with two decimals.
// Both numbers and quoted strings are accepted on input.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps d.
func NewAmount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

// MustAmount parses s, panicking on malformed input. Intended for tests
// and constants.
func MustAmount(s string) Amount { return Amount{Decimal: decimal.RequireFromString(s)} }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

// User is the public view of an account. The password digest never leaves
// the server.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

// Agent is a role slot on a project.
type Agent struct {
	ID     string `json:"id"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type Project struct {
	ID          string  `json:"id"`
	Code        string  `json:"project_code"`
	UserID      string  `json:"user_id"`
	Service     string  `json:"service_type"`
	Package     string  `json:"package_type"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   int64   `json:"created_at"`
	CompletedAt int64   `json:"completed_at,omitempty"`
	Agents      []Agent `json:"agents,omitempty"`
}

// Distribution is the split of a payment into its three funds.
type Distribution struct {
	AIUpgrade    Amount `json:"ai_upgrade"`
	ReserveFund  Amount `json:"reserve_fund"`
	OwnerRevenue Amount `json:"owner_revenue"`
}

type Payment struct {
	ID            string       `json:"id"`
	Amount        Amount       `json:"amount"`
	Currency      string       `json:"currency"`
	TransactionID string       `json:"transaction_id"`
	Status        string       `json:"status"`
	CreatedAt     int64        `json:"created_at"`
	Distribution  Distribution `json:"distribution"`
	DistributedAt int64        `json:"distributed_at"`
}

// AuthService

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
	User   *User  `json:"user"`
	Token  string `json:"access_token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
	User      *User  `json:"user"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// ProjectService

type CreateProjectRequest struct {
	Service     string `json:"service_type"`
	Package     string `json:"package_type"`
	Description string `json:"description"`
}

type CreateProjectResponse struct {
	ProjectID   string   `json:"project_id"`
	ProjectCode string   `json:"project_code"`
	Project     *Project `json:"project"`
}

type ListProjectsRequest struct{}

type ListProjectsResponse struct {
	Projects []Project `json:"projects"`
}

type GetProjectRequest struct {
	ProjectID string `json:"project_id"`
}

type GetProjectResponse struct {
	Project *Project `json:"project"`
}

type StartProjectRequest struct {
	ProjectID string `json:"project_id"`
}

type StartProjectResponse struct {
	Project *Project `json:"project"`
}

// PaymentService

type RecordPaymentRequest struct {
	Amount   Amount `json:"amount"`
	Currency string `json:"currency,omitempty"`

	// PaymentMethod is a gateway token, e.g. a Stripe pm_ id. Ignored by
	// the simulated gateway.
	PaymentMethod string            `json:"payment_method,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type RecordPaymentResponse struct {
	Success bool     `json:"success"`
	Payment *Payment `json:"payment"`
	Message string   `json:"message,omitempty"`
}

type ListPaymentsRequest struct{}

type ListPaymentsResponse struct {
	Payments []Payment `json:"payments"`
}

// AdminService

type DashboardStatsRequest struct{}

type DashboardStatsResponse struct {
	TotalRevenue   Amount `json:"total_revenue"`
	MonthlyRevenue Amount `json:"monthly_revenue"`
	TotalProjects  int64  `json:"total_projects"`
	ActiveProjects int64  `json:"active_projects"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []User `json:"users"`
}
