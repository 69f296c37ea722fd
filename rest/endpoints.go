package rest

import (
	"net/url"
	"strings"

	"github.com/sensesdx/portalkit/core"
)

// Endpoint paths of the logistics API, one constant per resource call.
const (
	PathLogin          = "/auth/login"
	PathSignup         = "/auth/signup"
	PathForgotPassword = "/auth/forgot-password"
	PathResetPassword  = "/auth/reset-password"
	PathSetPassword    = "/auth/set-password"

	PathUsers      = "/users"
	PathUserStatus = "/users/status/:id"
	PathUser       = "/users/:id"

	PathOrders           = "/orders"
	PathOrderStatistics  = "/orders/dashboard/statistics"
	PathReportStatistics = "/orders/reports/statistics"
	PathHospitalReports  = "/orders/reports"
	PathAssignOrder      = "/orders/:id/assign"
)

// expandPath substitutes the :id path parameter.
func expandPath(path, id string) string {
	return strings.Replace(path, ":id", url.PathEscape(id), 1)
}

// filterValues builds a query string from only the defined filter
// fields; nil fields are omitted entirely.
func filterValues(f core.OrderFilters) url.Values {
	q := url.Values{}
	setIf(q, "orderStatus", f.OrderStatus)
	setIf(q, "orderType", f.OrderType)
	setIf(q, "fieldExecutiveId", f.FieldExecutiveID)
	setIf(q, "hospitalStaffId", f.HospitalStaffID)
	setIf(q, "startDate", f.StartDate)
	setIf(q, "endDate", f.EndDate)
	setIf(q, "hospitalName", f.HospitalName)
	return q
}

func rangeValues(r core.DateRange) url.Values {
	q := url.Values{}
	setIf(q, "startDate", r.StartDate)
	setIf(q, "endDate", r.EndDate)
	return q
}

func setIf(q url.Values, key string, v *string) {
	if v != nil {
		q.Set(key, *v)
	}
}
