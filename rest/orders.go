package rest

import (
	"context"
	"net/http"

	"github.com/sensesdx/portalkit/core"
)

// GetOrderStatistics fetches the dashboard counters.
func (c *Client) GetOrderStatistics(ctx context.Context) (*core.OrderStatistics, error) {
	status, body, err := c.do(ctx, http.MethodGet, PathOrderStatistics, nil, nil)
	if err != nil {
		return nil, err
	}
	var stats core.OrderStatistics
	if err := c.expect(status, body, http.StatusOK, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetOrders lists orders narrowed by the defined filter fields. An
// empty result is a valid empty slice, never an error.
func (c *Client) GetOrders(ctx context.Context, filters core.OrderFilters) ([]core.Order, error) {
	status, body, err := c.do(ctx, http.MethodGet, PathOrders, filterValues(filters), nil)
	if err != nil {
		return nil, err
	}
	orders := []core.Order{}
	if err := c.expect(status, body, http.StatusOK, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AssignOrder requests the server-side Created -> Assigned transition.
func (c *Client) AssignOrder(ctx context.Context, orderID, fieldExecutiveID string) (*core.Order, error) {
	payload := map[string]string{"fieldExecutiveId": fieldExecutiveID}
	status, body, err := c.do(ctx, http.MethodPatch, expandPath(PathAssignOrder, orderID), nil, payload)
	if err != nil {
		return nil, err
	}
	var order core.Order
	if err := c.expect(status, body, http.StatusOK, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetReportStatistics fetches the report overview for a date range.
func (c *Client) GetReportStatistics(ctx context.Context, r core.DateRange) (*core.OrderStatistics, error) {
	status, body, err := c.do(ctx, http.MethodGet, PathReportStatistics, rangeValues(r), nil)
	if err != nil {
		return nil, err
	}
	var stats core.OrderStatistics
	if err := c.expect(status, body, http.StatusOK, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetHospitalReports lists completed collection rows for the reports
// view, narrowed like GetOrders.
func (c *Client) GetHospitalReports(ctx context.Context, filters core.OrderFilters) ([]core.Order, error) {
	status, body, err := c.do(ctx, http.MethodGet, PathHospitalReports, filterValues(filters), nil)
	if err != nil {
		return nil, err
	}
	rows := []core.Order{}
	if err := c.expect(status, body, http.StatusOK, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
