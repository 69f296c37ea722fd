package core

import "testing"

func TestCanAccessShouldDenyReportsToAdmins(t *testing.T) {
	if CanAccess(RoleAdmin, ViewReports) {
		t.Error("admins must not reach the reports view")
	}
}

func TestCanAccessShouldAllowEverythingElse(t *testing.T) {
	roles := []string{RoleAdmin, RoleFieldExecutive, RoleHospitalStaff}
	views := []string{ViewDashboard, ViewOrders, ViewUsers, ViewExecutives, ViewReports}

	for _, role := range roles {
		for _, view := range views {
			if role == RoleAdmin && view == ViewReports {
				continue
			}
			if !CanAccess(role, view) {
				t.Errorf("CanAccess(%s, %s) = false, want true", role, view)
			}
		}
	}
}

func TestViewsShouldOmitReportsForAdmins(t *testing.T) {
	for _, v := range Views(RoleAdmin) {
		if v == ViewReports {
			t.Fatal("admin navigation should not list reports")
		}
	}
	if len(Views(RoleAdmin)) != 4 {
		t.Errorf("admin should see 4 views, got %d", len(Views(RoleAdmin)))
	}
	if len(Views(RoleFieldExecutive)) != 5 {
		t.Errorf("field executives should see every view, got %d", len(Views(RoleFieldExecutive)))
	}
}
