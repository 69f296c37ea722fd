package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/sensesdx/portalkit"
	"github.com/sensesdx/portalkit/core"
	"github.com/sensesdx/portalkit/export"
	"github.com/sensesdx/portalkit/notify"
	"github.com/sensesdx/portalkit/pkg/cookie"
	"github.com/sensesdx/portalkit/query"
)

const tokenMaxAgeSeconds = 24 * 60 * 60

func (a *Adapter) login(c fiber.Ctx) error {
	var input core.LoginInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	rec := notify.NewRecorder()
	ctx := query.WithNotifier(c.Context(), rec)

	hooks := query.Hooks{OnSuccess: "Login successful", OnError: "Failed to login"}
	result, err := query.Mutate(ctx, a.portal.Queries, hooks, func(ctx context.Context) (*core.LoginResult, error) {
		return a.portal.Client.Login(ctx, input)
	})
	if err != nil {
		return a.fail(c, err, rec)
	}

	c.Cookie(&fiber.Cookie{
		Name:     core.TokenCookie,
		Value:    result.AccessToken,
		Path:     "/",
		MaxAge:   tokenMaxAgeSeconds,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	if result.User != nil {
		if snapshot, err := marshalProfile(result.User); err == nil {
			c.Cookie(&fiber.Cookie{
				Name:     core.ProfileCookie,
				Value:    snapshot,
				Path:     "/",
				MaxAge:   tokenMaxAgeSeconds,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":          result.User,
		"notifications": rec.Drain(),
	})
}

func (a *Adapter) logout(c fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:   core.TokenCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	return c.JSON(fiber.Map{
		"notifications": []notify.Event{{Kind: "success", Message: "Logout successful"}},
	})
}

func (a *Adapter) forgotPassword(c fiber.Ctx) error {
	var input struct {
		Phone string `json:"phone"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	rec := notify.NewRecorder()
	ctx := query.WithNotifier(c.Context(), rec)

	hooks := query.Hooks{
		OnSuccess: "Password reset link sent successfully",
		OnError:   "Failed to send password reset link",
	}
	_, err := query.Mutate(ctx, a.portal.Queries, hooks, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.portal.Client.ForgotPassword(ctx, input.Phone)
	})
	if err != nil {
		return a.fail(c, err, rec)
	}
	return c.JSON(fiber.Map{"notifications": rec.Drain()})
}

func (a *Adapter) navigation(c fiber.Ctx) error {
	role := ""
	if user, ok := c.Locals(localUser).(*core.User); ok && user != nil {
		role = user.Role
	}
	return c.JSON(fiber.Map{"data": portalkit.Views(role)})
}

func (a *Adapter) dashboard(c fiber.Ctx) error {
	stats, err := a.portal.OrderStatisticsQuery(a.requestContext(c))
	if err != nil {
		return a.fail(c, err, nil)
	}
	return c.JSON(fiber.Map{"data": stats})
}

func (a *Adapter) orders(c fiber.Ctx) error {
	orders, err := a.portal.OrdersQuery(a.requestContext(c), filtersFromQuery(c))
	if err != nil {
		return a.fail(c, err, nil)
	}
	return c.JSON(fiber.Map{"data": orders})
}

func (a *Adapter) users(c fiber.Ctx) error {
	role := c.Query("role")
	switch role {
	case core.RoleAdmin, core.RoleFieldExecutive, core.RoleHospitalStaff:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": core.ErrUnknownRole.Error(),
		})
	}

	users, err := a.portal.UsersQuery(a.requestContext(c), role)
	if err != nil {
		return a.fail(c, err, nil)
	}
	return c.JSON(fiber.Map{"data": users})
}

func (a *Adapter) executives(c fiber.Ctx) error {
	users, err := a.portal.UsersQuery(a.requestContext(c), core.RoleFieldExecutive)
	if err != nil {
		return a.fail(c, err, nil)
	}
	return c.JSON(fiber.Map{"data": users})
}

func (a *Adapter) reports(c fiber.Ctx) error {
	ctx := a.requestContext(c)
	filters := filtersFromQuery(c)

	rows, err := a.portal.HospitalReportsQuery(ctx, filters)
	if err != nil {
		return a.fail(c, err, nil)
	}
	stats, err := a.portal.ReportStatisticsQuery(ctx, core.DateRange{
		StartDate: filters.StartDate,
		EndDate:   filters.EndDate,
	})
	if err != nil {
		return a.fail(c, err, nil)
	}

	return c.JSON(fiber.Map{"data": fiber.Map{
		"rows":       rows,
		"statistics": stats,
	}})
}

func (a *Adapter) exportReports(c fiber.Ctx) error {
	ctx := a.requestContext(c)

	rows, err := a.portal.HospitalReportsQuery(ctx, filtersFromQuery(c))
	if err != nil {
		return a.fail(c, err, nil)
	}

	// resolve executive IDs to display names for the Executive column
	nameOf := func(string) string { return "" }
	if executives, err := a.portal.UsersQuery(ctx, core.RoleFieldExecutive); err == nil {
		names := make(map[string]string, len(executives))
		for _, e := range executives {
			names[e.ID] = e.Name
		}
		nameOf = func(id string) string { return names[id] }
	}

	exporter := export.CSV{}
	var buf bytes.Buffer
	if err := export.WriteReport(&buf, exporter, rows, nameOf); err != nil {
		return a.fail(c, err, nil)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename(exporter)+`"`)
	return c.Send(buf.Bytes())
}

func (a *Adapter) assignOrder(c fiber.Ctx) error {
	var input struct {
		FieldExecutiveID string `json:"fieldExecutiveId"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	rec := notify.NewRecorder()
	ctx := query.WithNotifier(a.requestContext(c), rec)

	order, err := a.portal.AssignOrder(ctx, c.Params("id"), input.FieldExecutiveID)
	if err != nil {
		return a.fail(c, err, rec)
	}
	return c.JSON(fiber.Map{"data": order, "notifications": rec.Drain()})
}

func (a *Adapter) createUser(c fiber.Ctx) error {
	var input struct {
		core.CreateUserInput
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	var cred *portalkit.AdminCredential
	if input.Role == core.RoleAdmin && input.Password != "" {
		cred = &portalkit.AdminCredential{
			Password:        input.Password,
			ConfirmPassword: input.ConfirmPassword,
		}
	}

	rec := notify.NewRecorder()
	ctx := query.WithNotifier(a.requestContext(c), rec)

	user, err := a.portal.CreateUser(ctx, input.CreateUserInput, cred)
	if err != nil {
		return a.fail(c, err, rec)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": user, "notifications": rec.Drain()})
}

func (a *Adapter) updateStatus(c fiber.Ctx) error {
	isActive, err := strconv.ParseBool(c.Query("isActive"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "isActive must be true or false",
		})
	}

	rec := notify.NewRecorder()
	ctx := query.WithNotifier(a.requestContext(c), rec)

	user, uerr := a.portal.UpdateStatus(ctx, c.Params("id"), isActive)
	if uerr != nil {
		return a.fail(c, uerr, rec)
	}
	return c.JSON(fiber.Map{"data": user, "notifications": rec.Drain()})
}

func (a *Adapter) updateUser(c fiber.Ctx) error {
	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid request body",
		})
	}

	rec := notify.NewRecorder()
	ctx := query.WithNotifier(a.requestContext(c), rec)

	user, err := a.portal.UpdateUser(ctx, core.UpdateUserInput{
		ID:    c.Params("id"),
		Name:  input.Name,
		Email: input.Email,
	}, input.Role)
	if err != nil {
		return a.fail(c, err, rec)
	}
	return c.JSON(fiber.Map{"data": user, "notifications": rec.Drain()})
}

// fail maps a normalized failure onto the response. The server's
// message goes through verbatim; transport failures read as a 502.
func (a *Adapter) fail(c fiber.Ctx, err error, rec *notify.Recorder) error {
	apiErr := core.NormalizeError(err)
	status := apiErr.StatusCode
	if status == 0 {
		status = fiber.StatusBadGateway
	}

	body := fiber.Map{"message": apiErr.Message}
	if rec != nil {
		body["notifications"] = rec.Drain()
	}
	return c.Status(status).JSON(body)
}

func filtersFromQuery(c fiber.Ctx) core.OrderFilters {
	var f core.OrderFilters
	f.OrderStatus = queryPtr(c, "orderStatus")
	f.OrderType = queryPtr(c, "orderType")
	f.FieldExecutiveID = queryPtr(c, "fieldExecutiveId")
	f.HospitalStaffID = queryPtr(c, "hospitalStaffId")
	f.StartDate = queryPtr(c, "startDate")
	f.EndDate = queryPtr(c, "endDate")
	f.HospitalName = queryPtr(c, "hospitalName")
	return f
}

func queryPtr(c fiber.Ctx, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

func marshalProfile(u *core.User) (string, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	return cookie.Encode(string(raw)), nil
}
