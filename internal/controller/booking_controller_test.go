package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"bookease-be/internal/dto"
	"bookease-be/internal/entity"
	"bookease-be/internal/pkg/serverutils"
	"bookease-be/internal/service"
	"bookease-be/pkg/booking/cancellation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Create(ctx context.Context, actor entity.Actor, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *MockBookingService) ListMine(ctx context.Context, actor entity.Actor) ([]dto.BookingResponse, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]dto.BookingResponse), args.Error(1)
}

func (m *MockBookingService) ListAll(ctx context.Context, status string) ([]dto.BookingResponse, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]dto.BookingResponse), args.Error(1)
}

func (m *MockBookingService) Get(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.BookingResponse, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *MockBookingService) Approve(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *MockBookingService) MarkPaid(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *MockBookingService) Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BookingResponse), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, id uuid.UUID, actor entity.Actor) (*cancellation.Outcome, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cancellation.Outcome), args.Error(1)
}

func (m *MockBookingService) CompleteEnded(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newBookingApp(svc service.IBookingService, actor entity.Actor) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewBookingController(svc, serverutils.WithActor(actor)).RegisterRoutes(app)
	return app
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestCancel_ReportsRefundInMajorUnits(t *testing.T) {
	actor := entity.Actor{Id: uuid.New(), Role: entity.UserRoleCustomer}
	id := uuid.New()

	svc := new(MockBookingService)
	svc.On("Cancel", mock.Anything, id, actor).Return(&cancellation.Outcome{
		BookingId:       id,
		Cancelled:       true,
		RefundProcessed: true,
		RefundAmount:    8050,
	}, nil)

	resp, err := newBookingApp(svc, actor).Test(httptest.NewRequest(fiber.MethodPost, "/bookings/"+id.String()+"/cancel", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["refundProcessed"])
	assert.InDelta(t, 80.50, body["refundAmount"], 0.0001)
	assert.NotContains(t, body, "warning")
	svc.AssertExpectations(t)
}

func TestCancel_SurfacesWarning(t *testing.T) {
	actor := entity.Actor{Id: uuid.New(), Role: entity.UserRoleAdmin}
	id := uuid.New()

	svc := new(MockBookingService)
	svc.On("Cancel", mock.Anything, id, actor).Return(&cancellation.Outcome{
		BookingId:    id,
		Cancelled:    true,
		RefundAmount: 10000,
		Warnings:     []string{"refund could not be processed and needs manual follow-up"},
	}, nil)

	resp, err := newBookingApp(svc, actor).Test(httptest.NewRequest(fiber.MethodPost, "/bookings/"+id.String()+"/cancel", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, false, body["refundProcessed"])
	assert.InDelta(t, 100.0, body["refundAmount"], 0.0001)
	assert.Contains(t, body["warning"], "manual follow-up")
}

func TestCancel_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", cancellation.ErrNotFound, fiber.StatusNotFound},
		{"unauthorized", cancellation.ErrUnauthorized, fiber.StatusForbidden},
		{"already cancelled", cancellation.ErrAlreadyCancelled, fiber.StatusBadRequest},
		{"completed", cancellation.ErrNotCancellable, fiber.StatusBadRequest},
		{"internal", fmt.Errorf("%w: commit: %w", cancellation.ErrInternal, errors.New("db gone")), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := entity.Actor{Id: uuid.New(), Role: entity.UserRoleCustomer}
			id := uuid.New()

			svc := new(MockBookingService)
			svc.On("Cancel", mock.Anything, id, actor).Return(nil, tt.err)

			resp, err := newBookingApp(svc, actor).Test(httptest.NewRequest(fiber.MethodPost, "/bookings/"+id.String()+"/cancel", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			body := decode(t, resp.Body)
			assert.Equal(t, false, body["success"])
			assert.EqualValues(t, tt.want, body["code"])
			if tt.want == fiber.StatusInternalServerError {
				assert.Contains(t, body["details"], "db gone")
			}
		})
	}
}

func TestCancel_RejectsMalformedID(t *testing.T) {
	actor := entity.Actor{Id: uuid.New(), Role: entity.UserRoleCustomer}
	svc := new(MockBookingService)

	resp, err := newBookingApp(svc, actor).Test(httptest.NewRequest(fiber.MethodPost, "/bookings/not-a-uuid/cancel", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestListAll_RequiresAdmin(t *testing.T) {
	customer := entity.Actor{Id: uuid.New(), Role: entity.UserRoleCustomer}
	svc := new(MockBookingService)

	resp, err := newBookingApp(svc, customer).Test(httptest.NewRequest(fiber.MethodGet, "/bookings/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	admin := entity.Actor{Id: uuid.New(), Role: entity.UserRoleAdmin}
	svc.On("ListAll", mock.Anything, "CANCELLED").Return([]dto.BookingResponse{{Id: uuid.New(), Status: "CANCELLED"}}, nil)

	resp, err = newBookingApp(svc, admin).Test(httptest.NewRequest(fiber.MethodGet, "/bookings/?status=CANCELLED", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestCreate_ValidatesBody(t *testing.T) {
	actor := entity.Actor{Id: uuid.New(), Role: entity.UserRoleCustomer}
	svc := new(MockBookingService)

	req := httptest.NewRequest(fiber.MethodPost, "/bookings/", nil)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := newBookingApp(svc, actor).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_MapsServiceErrors(t *testing.T) {
	actor := entity.Actor{Id: uuid.New(), Role: entity.UserRoleCustomer}
	svc := new(MockBookingService)
	svc.On("Create", mock.Anything, actor, mock.AnythingOfType("*dto.CreateBookingRequest")).Return(nil, service.ErrServiceInactive)

	payload := fmt.Sprintf(`{"serviceId":%q,"startTime":"2030-01-02T10:00:00Z"}`, uuid.NewString())
	req := httptest.NewRequest(fiber.MethodPost, "/bookings/", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := newBookingApp(svc, actor).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	svc.AssertExpectations(t)
}
