package core

import "time"

// Order statuses as reported by the logistics API. The client never
// transitions these locally; AssignOrder asks the server to move a
// Created order toward Assigned.
const (
	OrderStatusCreated   = "Created"
	OrderStatusAssigned  = "Assigned"
	OrderStatusOnTheWay  = "OnTheWay"
	OrderStatusCompleted = "Completed"
)

const (
	OrderTypeHome     = "Home"
	OrderTypeHospital = "Hospital"
)

const (
	RoleAdmin          = "admin"
	RoleFieldExecutive = "field_executive"
	RoleHospitalStaff  = "hospital_staff"
)

// User is the role-tagged account record served by the remote API.
//
// UserID is the canonical display identifier; Phone is the login
// credential and nothing more.
type User struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Role          string     `json:"role"`
	Designation   *string    `json:"designation,omitempty"`
	HospitalName  *string    `json:"hospitalName,omitempty"`
	IsActive      bool       `json:"isActive"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	FirebaseToken *string    `json:"firebaseToken,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Order is a sample-collection order. Lifecycle is owned server-side.
type Order struct {
	ID               string  `json:"id"`
	OrderType        string  `json:"orderType"`
	OrderStatus      string  `json:"orderStatus"`
	FieldExecutiveID *string `json:"fieldExecutiveId"`
	HospitalStaffID  *string `json:"hospitalStaffId"`

	PatientName         string  `json:"patientName"`
	PatientMobileNumber string  `json:"patientMobileNumber"`
	HospitalName        *string `json:"hospitalName"`

	Area     string `json:"area"`
	Street   string `json:"street"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`

	TestType        string   `json:"testType"`
	Prescription    *string  `json:"prescription"`
	SamplePhoto     *string  `json:"samplePhoto"`
	AmountCollected *float64 `json:"amountCollected"`
	CollectionDate  *string  `json:"collectionDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderStatistics backs the dashboard and report overview cards.
type OrderStatistics struct {
	Total            int `json:"total"`
	ActiveExecutives int `json:"activeExecutives"`
	PendingOrders    int `json:"pendingOrders"`
	UnassignedOrders int `json:"unAssignedOrders"`
}

// Session is what the client holds after a successful login. Token is
// opaque; User is advisory display data, never an authorization source.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// Authenticated reports whether the session should be treated as live.
// A non-empty token is sufficient; a missing profile is tolerated.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// LoginInput carries operator credentials.
type LoginInput struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginResult mirrors the POST /auth/login response body.
type LoginResult struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// CreateUserInput carries the fields sent to POST /auth/signup.
type CreateUserInput struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
}

// UpdateUserInput carries the mutable profile fields for PATCH /users/:id.
type UpdateUserInput struct {
	ID    string `json:"-"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SetPasswordInput is the admin-onboarding credential call.
type SetPasswordInput struct {
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// OrderFilters narrows GET /orders and GET /orders/reports. Nil fields
// are omitted from the query string entirely.
type OrderFilters struct {
	OrderStatus      *string `json:"orderStatus,omitempty"`
	OrderType        *string `json:"orderType,omitempty"`
	FieldExecutiveID *string `json:"fieldExecutiveId,omitempty"`
	HospitalStaffID  *string `json:"hospitalStaffId,omitempty"`
	StartDate        *string `json:"startDate,omitempty"`
	EndDate          *string `json:"endDate,omitempty"`
	HospitalName     *string `json:"hospitalName,omitempty"`
}

// DateRange bounds the report statistics query.
type DateRange struct {
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}

// Ptr is a helper for building filter literals inline.
func Ptr[T any](v T) *T { return &v }
