// Package http exposes the read side and the operational endpoints of the
// order service over echo.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"orders/internal/adapters/contracts"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/generated/servers"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// OrderGetter is implemented by queries.GetOrderQueryHandler.
type OrderGetter interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
}

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface generated from api/openapi.yml.
type Server struct {
	getOrderHandler OrderGetter
	metrics         http.Handler
}

// NewServer creates the handlers. gatherer backs the /metrics endpoint.
func NewServer(getOrderHandler OrderGetter, gatherer prometheus.Gatherer) *Server {
	return &Server{
		getOrderHandler: getOrderHandler,
		metrics:         promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}
}

// NewEcho creates an echo instance with the server routes registered.
func NewEcho(s *Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.HTTPErrorHandler = errorHandler
	e.Use(middleware.Recover())

	s.Register(e)
	return e
}

// Register adds the generated routes, the OpenAPI document and the swagger
// UI to e.
func (s *Server) Register(e *echo.Echo) {
	servers.RegisterHandlers(e, s)
	e.GET("/openapi.json", s.GetOpenAPI)
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.json")))
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GetMetrics handles GET /metrics.
func (s *Server) GetMetrics(ctx echo.Context) error {
	s.metrics.ServeHTTP(ctx.Response(), ctx.Request())
	return nil
}

// GetOpenAPI serves the embedded OpenAPI document.
func (s *Server) GetOpenAPI(ctx echo.Context) error {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}
	return ctx.JSON(http.StatusOK, swagger)
}

// GetOrder handles GET /api/v1/orders/{orderId}. A malformed id is rejected
// by the generated wrapper before this method runs.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(orderId[:])
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid order id: " + err.Error(),
		})
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, servers.Error{
				Code:    http.StatusNotFound,
				Message: "Order not found",
			})
		}
		ctx.Logger().Errorf("get order %s: %v", id, err)
		return ctx.JSON(http.StatusInternalServerError, servers.Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	return ctx.JSON(http.StatusOK, toOrder(resp))
}

// errorHandler writes echo errors, such as a failed path parameter binding,
// with the Error schema.
func errorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		ctx.Logger().Error(err)
	}

	if err := ctx.JSON(code, servers.Error{Code: code, Message: message}); err != nil {
		ctx.Logger().Error(err)
	}
}

func toOrder(resp queries.GetOrderQueryResponse) servers.Order {
	items := make([]servers.OrderItem, len(resp.Items))
	for i, item := range resp.Items {
		items[i] = servers.OrderItem{
			Id:        item.ID.Bytes(),
			ProductId: item.ProductID.Bytes(),
			Quantity:  item.Quantity,
			UnitPrice: contracts.NewPrice(item.UnitPrice),
			LineTotal: contracts.NewPrice(item.LineTotal),
		}
	}

	return servers.Order{
		Id:        resp.ID.Bytes(),
		Status:    servers.OrderStatus(resp.Status),
		Items:     items,
		Total:     contracts.NewPrice(resp.Total),
		Currency:  resp.Currency,
		CreatedAt: contracts.NewLocalDateTime(resp.CreatedAt),
		UpdatedAt: contracts.NewLocalDateTime(resp.UpdatedAt),
		Version:   resp.Version,
	}
}
