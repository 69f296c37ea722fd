package core

// Portal views. The gateway and the navigation renderer both consult
// CanAccess with these, so the gating rule lives in exactly one place.
const (
	ViewDashboard  = "dashboard"
	ViewOrders     = "orders"
	ViewUsers      = "users"
	ViewExecutives = "executives"
	ViewReports    = "reports"
)

// DefaultView is where authenticated operators land, and where denied
// navigation attempts are redirected.
const DefaultView = ViewDashboard

// CanAccess is the capability check for role-based view restriction.
// Administrators are denied the reports view; every other role/view
// combination is allowed.
func CanAccess(role, view string) bool {
	if role == RoleAdmin && view == ViewReports {
		return false
	}
	return true
}

// Views lists the navigable views for a role, in sidebar order.
func Views(role string) []string {
	all := []string{ViewDashboard, ViewOrders, ViewUsers, ViewExecutives, ViewReports}
	out := make([]string, 0, len(all))
	for _, v := range all {
		if CanAccess(role, v) {
			out = append(out, v)
		}
	}
	return out
}
