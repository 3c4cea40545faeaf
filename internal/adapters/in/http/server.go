package http

import (
	"errors"
	"net/http"
	"time"

	"dormeal/internal/core/application/usecases/commands"
	"dormeal/internal/core/application/usecases/queries"
	"dormeal/internal/core/domain/services"
	"dormeal/internal/generated/servers"
	"dormeal/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"go.uber.org/zap"
)

// Handlers are the use cases the HTTP adapter exposes.
type Handlers struct {
	CreateOrder      commands.CreateOrderCommandHandler
	ClaimOrder       commands.ClaimOrderCommandHandler
	ConfirmRetrieval commands.ConfirmRetrievalCommandHandler
	MarkDelivered    commands.MarkDeliveredCommandHandler
	ReportMissing    commands.ReportMissingCommandHandler
	ReopenOrder      commands.ReopenOrderCommandHandler
	CancelOrder      commands.CancelOrderCommandHandler
	Login            commands.LoginCommandHandler
	Logout           commands.LogoutCommandHandler

	AvailableOrders queries.GetAvailableOrdersQueryHandler
	OrderStatus     queries.GetOrderStatusQueryHandler
	Schools         queries.GetSchoolsQueryHandler
	Restaurants     queries.GetRestaurantsForSchoolQueryHandler
	Menu            queries.GetMenuQueryHandler
	Dashboard       queries.GetDashboardQueryHandler
	ResolveSession  queries.ResolveSessionQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers      Handlers
	logger        *zap.Logger
	secureCookies bool
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *zap.Logger, secureCookies bool) *Server {
	return &Server{
		handlers:      handlers,
		logger:        logger.With(zap.String("component", "http")),
		secureCookies: secureCookies,
	}
}

// GetHome handles GET / - tells the caller where to go next.
func (s *Server) GetHome(ctx echo.Context) error {
	p := principalFrom(ctx)
	message := "log in to order food or deliver it"
	if !p.IsAnonymous() {
		message = "open /dashboard to see your orders"
	}
	return ctx.JSON(http.StatusOK, servers.Home{Message: message, Principal: toPrincipal(p)})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// Login handles POST /login - opens a session and sets the session cookie.
func (s *Server) Login(ctx echo.Context) error {
	var body servers.LoginJSONRequestBody
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	cmd, err := commands.NewLoginCommand(body.Username, body.Password)
	if err != nil {
		return err
	}
	result, err := s.handlers.Login.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	ctx.SetCookie(s.sessionCookie(result.Token, result.ExpiresAt))
	return ctx.JSON(http.StatusOK, servers.LoginResponse{
		ExpiresAt: result.ExpiresAt,
		Principal: toPrincipal(result.Principal),
		Token:     result.Token,
	})
}

// Logout handles POST /logout - ends the session and clears the cookie.
func (s *Server) Logout(ctx echo.Context) error {
	cmd := commands.NewLogoutCommand(sessionToken(ctx.Request()))
	if err := s.handlers.Logout.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	ctx.SetCookie(s.sessionCookie("", time.Unix(0, 0)))
	return ctx.NoContent(http.StatusNoContent)
}

// GetSession handles GET /session - the principal behind the request.
func (s *Server) GetSession(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, toPrincipal(principalFrom(ctx)))
}

// GetDashboard handles GET /dashboard.
func (s *Server) GetDashboard(ctx echo.Context) error {
	view, err := s.handlers.Dashboard.Handle(ctx.Request().Context(), queries.NewGetDashboardQuery(principalFrom(ctx)))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toDashboard(view))
}

// GetSchools handles GET /guest-school-selection.
func (s *Server) GetSchools(ctx echo.Context) error {
	schools, err := s.handlers.Schools.Handle(ctx.Request().Context(), queries.NewGetSchoolsQuery())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toSchools(schools))
}

// GetRestaurants handles GET /restaurant-menu/{schoolId}.
func (s *Server) GetRestaurants(ctx echo.Context, schoolId servers.SchoolId) error {
	id, err := toKernelUUID(schoolId)
	if err != nil {
		return err
	}
	query, err := queries.NewGetRestaurantsForSchoolQuery(id)
	if err != nil {
		return err
	}
	restaurants, err := s.handlers.Restaurants.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toRestaurants(restaurants))
}

// GetMenu handles GET /menu/{schoolId}/{restaurantMenuId}.
func (s *Server) GetMenu(ctx echo.Context, schoolId servers.SchoolId, restaurantMenuId openapi_types.UUID) error {
	school, err := toKernelUUID(schoolId)
	if err != nil {
		return err
	}
	restaurant, err := toKernelUUID(restaurantMenuId)
	if err != nil {
		return err
	}
	query, err := queries.NewGetMenuQuery(school, restaurant)
	if err != nil {
		return err
	}
	menu, err := s.handlers.Menu.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toMenu(menu))
}

// CreateOrder handles POST /orders - checkout of the caller's cart.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body servers.CreateOrderJSONRequestBody
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	school, err := toKernelUUID(body.SchoolId)
	if err != nil {
		return err
	}
	restaurant, err := toKernelUUID(body.RestaurantId)
	if err != nil {
		return err
	}
	selections := make([]services.Selection, 0, len(body.Items))
	for _, item := range body.Items {
		selection := services.Selection{ItemID: item.ItemId, Quantity: item.Quantity}
		if item.OptionIds != nil {
			selection.OptionIDs = *item.OptionIds
		}
		selections = append(selections, selection)
	}

	cmd, err := commands.NewCreateOrderCommand(principalFrom(ctx), school, restaurant, selections)
	if err != nil {
		return err
	}
	result, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toTransition(result))
}

// GetOrderStatus handles GET /order-status/{orderId}.
func (s *Server) GetOrderStatus(ctx echo.Context, orderId servers.OrderId) error {
	view, err := s.orderView(ctx, orderId)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(view))
}

// GetHandoffCodeQr handles GET /orders/{orderId}/handoff-code.png. Only the
// order's consumer sees the code.
func (s *Server) GetHandoffCodeQr(ctx echo.Context, orderId servers.OrderId) error {
	view, err := s.orderView(ctx, orderId)
	if err != nil {
		return err
	}
	if view.HandoffCode == "" {
		return errs.NewUnauthorizedErrorWithCause("view handoff code", errors.New("only the consumer sees the handoff code"))
	}
	png, err := handoffQR(view.ID, view.HandoffCode)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return ctx.Blob(http.StatusOK, "image/png", png)
}

// GetAvailableOrders handles GET /carrier/available-orders/{schoolId}.
func (s *Server) GetAvailableOrders(ctx echo.Context, schoolId servers.SchoolId) error {
	id, err := toKernelUUID(schoolId)
	if err != nil {
		return err
	}
	query, err := queries.NewGetAvailableOrdersQuery(id, principalFrom(ctx))
	if err != nil {
		return err
	}
	views, err := s.handlers.AvailableOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrders(views))
}

// ClaimOrder handles POST /carrier/claim/{carrierId}/{orderId}. The carrier
// in the path must be the caller.
func (s *Server) ClaimOrder(ctx echo.Context, carrierId openapi_types.UUID, orderId servers.OrderId) error {
	carrier := principalFrom(ctx)
	pathCarrier, err := toKernelUUID(carrierId)
	if err != nil {
		return err
	}
	if !carrier.IsAnonymous() && !pathCarrier.IsEqual(carrier.ID()) {
		return errs.NewUnauthorizedErrorWithCause("claim order", errors.New("carrier id does not match the session"))
	}

	id, err := toKernelUUID(orderId)
	if err != nil {
		return err
	}
	cmd, err := commands.NewClaimOrderCommand(id, carrier)
	if err != nil {
		return err
	}
	return s.transition(ctx, func() (commands.TransitionResult, error) {
		return s.handlers.ClaimOrder.Handle(ctx.Request().Context(), cmd)
	})
}

// ConfirmOrderRetrieval handles POST /confirm-order-retrieval/{orderId}.
func (s *Server) ConfirmOrderRetrieval(ctx echo.Context, orderId servers.OrderId) error {
	id, err := toKernelUUID(orderId)
	if err != nil {
		return err
	}
	cmd, err := commands.NewConfirmRetrievalCommand(id, principalFrom(ctx))
	if err != nil {
		return err
	}
	return s.transition(ctx, func() (commands.TransitionResult, error) {
		return s.handlers.ConfirmRetrieval.Handle(ctx.Request().Context(), cmd)
	})
}

// MarkOrderDelivered handles POST /order-delivered/{orderId}. Carriers send
// the handoff code; consumers and admins send no body.
func (s *Server) MarkOrderDelivered(ctx echo.Context, orderId servers.OrderId) error {
	var body servers.MarkOrderDeliveredJSONRequestBody
	if ctx.Request().ContentLength != 0 {
		if err := bindAndValidate(ctx, &body); err != nil {
			return err
		}
	}
	code := ""
	if body.HandoffCode != nil {
		code = *body.HandoffCode
	}

	id, err := toKernelUUID(orderId)
	if err != nil {
		return err
	}
	cmd, err := commands.NewMarkDeliveredCommand(id, principalFrom(ctx), code)
	if err != nil {
		return err
	}
	return s.transition(ctx, func() (commands.TransitionResult, error) {
		return s.handlers.MarkDelivered.Handle(ctx.Request().Context(), cmd)
	})
}

// ReportOrderMissing handles POST /order-not-delivered/{orderId}.
func (s *Server) ReportOrderMissing(ctx echo.Context, orderId servers.OrderId) error {
	id, err := toKernelUUID(orderId)
	if err != nil {
		return err
	}
	cmd, err := commands.NewReportMissingCommand(id, principalFrom(ctx))
	if err != nil {
		return err
	}
	return s.transition(ctx, func() (commands.TransitionResult, error) {
		return s.handlers.ReportMissing.Handle(ctx.Request().Context(), cmd)
	})
}

// CancelOrder handles POST /orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderId servers.OrderId) error {
	id, err := toKernelUUID(orderId)
	if err != nil {
		return err
	}
	cmd, err := commands.NewCancelOrderCommand(id, principalFrom(ctx))
	if err != nil {
		return err
	}
	return s.transition(ctx, func() (commands.TransitionResult, error) {
		return s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd)
	})
}

// ReopenOrder handles POST /admin/orders/{orderId}/reopen.
func (s *Server) ReopenOrder(ctx echo.Context, orderId servers.OrderId) error {
	id, err := toKernelUUID(orderId)
	if err != nil {
		return err
	}
	cmd, err := commands.NewReopenOrderCommand(id, principalFrom(ctx))
	if err != nil {
		return err
	}
	return s.transition(ctx, func() (commands.TransitionResult, error) {
		return s.handlers.ReopenOrder.Handle(ctx.Request().Context(), cmd)
	})
}

func (s *Server) transition(ctx echo.Context, run func() (commands.TransitionResult, error)) error {
	result, err := run()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toTransition(result))
}

func (s *Server) orderView(ctx echo.Context, orderId servers.OrderId) (queries.OrderView, error) {
	id, err := toKernelUUID(orderId)
	if err != nil {
		return queries.OrderView{}, err
	}
	query, err := queries.NewGetOrderStatusQuery(id, principalFrom(ctx))
	if err != nil {
		return queries.OrderView{}, err
	}
	return s.handlers.OrderStatus.Handle(ctx.Request().Context(), query)
}

func (s *Server) sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func bindAndValidate(ctx echo.Context, body any) error {
	if err := ctx.Bind(body); err != nil {
		return err
	}
	return ctx.Validate(body)
}

