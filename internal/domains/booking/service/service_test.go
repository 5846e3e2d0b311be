package service_test

import (
	"context"
	"errors"
	"jumuia/config"
	otelMocks "jumuia/infras/otel/mocks"
	bookingMocks "jumuia/internal/domains/booking/mocks"
	"jumuia/internal/domains/booking/model"
	"jumuia/internal/domains/booking/model/dto"
	"jumuia/internal/domains/booking/service"
	notificationMocks "jumuia/internal/domains/notification/mocks"
	notificationModel "jumuia/internal/domains/notification/model"
	"jumuia/shared/cache"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/failure"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const bookingUUID = "3f9a7c52-1d2e-4b8a-9c6f-0e5d4a3b2c1d"

type fixture struct {
	svc       service.Booking
	repo      *bookingMocks.MockBooking
	eventRepo *bookingMocks.MockStatusEvent
	publisher *notificationMocks.MockPublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f := fixture{
		repo:      bookingMocks.NewMockBooking(ctrl),
		eventRepo: bookingMocks.NewMockStatusEvent(ctrl),
		publisher: notificationMocks.NewMockPublisher(ctrl),
	}

	f.svc = service.New(f.repo, f.eventRepo, f.publisher, cfg, cache.NewRedisCache(client, otelMocks.NewOtel()), otelMocks.NewOtel())

	return f
}

func asCaller(role, property string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)

	return context.WithValue(ctx, constant.ContextKeyAssignedProperty, property)
}

func failureCode(t *testing.T, err error) int {
	t.Helper()

	var fail *failure.Failure
	require.True(t, errors.As(err, &fail), "expected failure, got %v", err)

	return fail.Code
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		GuestFirstName: "Jane",
		GuestLastName:  "Doe",
		GuestEmail:     "jane@example.com",
		Property:       "kanamai",
		RoomType:       "Deluxe",
		Adults:         2,
		CheckIn:        "2024-01-15",
		CheckOut:       "2024-01-18",
		TotalAmount:    decimal.NewFromInt(27000),
	}
}

func storedBooking(status, paymentStatus string) model.Booking {
	return model.Booking{
		ID:             bookingUUID,
		BookingID:      "WEB-345678123",
		GuestFirstName: "Jane",
		GuestLastName:  "Doe",
		Property:       "kanamai",
		RoomType:       "Deluxe",
		Adults:         2,
		CheckIn:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		CheckOut:       time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC),
		Nights:         3,
		TotalAmount:    decimal.NewFromInt(27000),
		Currency:       model.CurrencyKES,
		Status:         status,
		PaymentStatus:  paymentStatus,
		Source:         model.SourceWeb,
	}
}

func TestBookingService_Create(t *testing.T) {
	f := newFixture(t)

	var inserted model.Booking

	f.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, booking model.Booking) error {
			inserted = booking

			return nil
		})

	f.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, event notificationModel.Event) {
			assert.Equal(t, notificationModel.EventBookingCreated, event.Type)
			assert.Equal(t, inserted.BookingID, event.Booking.BookingID)
			assert.Equal(t, "Jane Doe", event.Booking.GuestName)
		})

	res, err := f.svc.Create(context.Background(), createRequest(), model.SourceWeb)
	require.NoError(t, err)

	assert.Regexp(t, `^WEB-\d{9}$`, res.BookingID)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, model.PaymentAwaitingPayment, res.PaymentStatus)
	assert.Equal(t, 3, res.Nights)
	assert.Equal(t, constant.ContextGuest, inserted.CreatedBy)
	assert.Equal(t, model.SourceWeb, inserted.Source)
}

func TestBookingService_CreateGuestRequiresProperty(t *testing.T) {
	f := newFixture(t)

	req := createRequest()
	req.Property = ""

	_, err := f.svc.Create(context.Background(), req, model.SourceWeb)
	assert.Equal(t, http.StatusBadRequest, failureCode(t, err))
}

func TestBookingService_CreateAdminProperty(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		assigned  string
		requested string
		want      string
	}{
		{name: "defaults to limuru", role: constant.RoleAdmin, assigned: "all", want: "limuru"},
		{name: "defaults to assigned property", role: constant.RoleGeneralManager, assigned: "kisumu", want: "kisumu"},
		{name: "keeps requested property", role: constant.RoleAdmin, assigned: "all", requested: "kanamai", want: "kanamai"},
		{name: "manager is forced to assigned property", role: constant.RoleManager, assigned: "kisumu", requested: "kanamai", want: "kisumu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := createRequest()
			req.Property = tt.requested

			f.repo.EXPECT().
				Insert(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, booking model.Booking) error {
					assert.Equal(t, tt.want, booking.Property)
					assert.Equal(t, "user-1", booking.CreatedBy)

					return nil
				})
			f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

			res, err := f.svc.Create(asCaller(tt.role, tt.assigned), req, model.SourceAdmin)
			require.NoError(t, err)
			assert.Regexp(t, `^ADM-\d{9}$`, res.BookingID)
		})
	}
}

func TestBookingService_CreateRetriesBookingCodeCollision(t *testing.T) {
	f := newFixture(t)

	collision := &pq.Error{Code: constant.PqErrorCodeUniqueViolation, Constraint: "bookings_booking_id_key"}

	gomock.InOrder(
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(collision),
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil),
	)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	_, err := f.svc.Create(context.Background(), createRequest(), model.SourceWeb)
	assert.NoError(t, err)
}

func TestBookingService_CreateRepositoryError(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))

	_, err := f.svc.Create(context.Background(), createRequest(), model.SourceWeb)
	assert.Error(t, err)
}

func TestBookingService_GetAllScopesManagers(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "kisumu", args["property"])

			return 1, nil
		})

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Equal(t, "bookings.created_at", params.SortBy)
			assert.Equal(t, gDto.SortDirDesc, params.SortDir)
			assert.Equal(t, constant.DefaultValueLimit, params.Limit)

			_, args := filter.GetWhereClause()
			assert.Equal(t, "kisumu", args["property"])

			booking := storedBooking(model.StatusPending, model.PaymentAwaitingPayment)
			booking.Property = "kisumu"

			return []model.Booking{booking}, nil
		})

	res, err := f.svc.GetAll(asCaller(constant.RoleManager, "kisumu"), gDto.QueryParams{}, dto.BookingFilter{Property: "kanamai"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, "kisumu", res.Bookings[0].Property)
}

func TestBookingService_GetAllRejectsBadFilter(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{}, dto.BookingFilter{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, failureCode(t, err))
}

func TestBookingService_Search(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "OR")
			assert.Equal(t, "%0712%", args["q_booking_id"])
			assert.Equal(t, "254712%", args["q_phone"])

			return nil, nil
		})

	res, err := f.svc.Search(context.Background(), "0712", gDto.QueryParams{})
	require.NoError(t, err)
	assert.Empty(t, res.Bookings)

	_, err = f.svc.Search(context.Background(), "", gDto.QueryParams{})
	assert.Equal(t, http.StatusBadRequest, failureCode(t, err))
}

func TestBookingService_Get(t *testing.T) {
	t.Run("found by uuid", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusConfirmed, model.PaymentPaid), nil)

		res, err := f.svc.Get(context.Background(), bookingUUID)
		require.NoError(t, err)
		assert.Equal(t, "WEB-345678123", res.BookingID)
		assert.Equal(t, "Confirmed", res.StatusBadge.Label)
	})

	t.Run("found by booking code", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
				where, _ := filter.GetWhereClause()
				assert.Contains(t, where, "bookings.booking_id")

				return storedBooking(model.StatusPending, model.PaymentAwaitingPayment), nil
			})

		_, err := f.svc.Get(context.Background(), "WEB-345678123")
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.Get(context.Background(), bookingUUID)
		assert.Equal(t, http.StatusNotFound, failureCode(t, err))
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Get(context.Background(), "1; DROP TABLE bookings")
		assert.Equal(t, http.StatusNotFound, failureCode(t, err))
	})

	t.Run("hidden from other property manager", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusPending, model.PaymentAwaitingPayment), nil)

		_, err := f.svc.Get(asCaller(constant.RoleStaff, "limuru"), bookingUUID)
		assert.Equal(t, http.StatusNotFound, failureCode(t, err))
	})
}

func TestBookingService_TransitionStatus(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusConfirmed, model.PaymentPaid), nil)
	f.repo.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
	f.repo.EXPECT().
		UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, changes map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.StatusCheckedIn, changes[model.FieldStatus])
			assert.Contains(t, changes, model.FieldCheckedInAt)
			assert.Equal(t, "user-1", changes[constant.FieldModifiedBy])

			return nil
		})
	f.eventRepo.EXPECT().
		InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, event model.StatusEvent) error {
			assert.Equal(t, bookingUUID, event.BookingID)
			assert.Equal(t, model.StatusConfirmed, event.FromStatus)
			assert.Equal(t, model.StatusCheckedIn, event.ToStatus)

			return nil
		})
	f.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, event notificationModel.Event) {
			assert.Equal(t, notificationModel.EventStatusChanged, event.Type)
			assert.Equal(t, model.StatusConfirmed, event.PreviousStatus)
			assert.Equal(t, model.StatusCheckedIn, event.Booking.Status)
		})

	res, err := f.svc.TransitionStatus(asCaller(constant.RoleStaff, "kanamai"), bookingUUID, model.StatusCheckedIn)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCheckedIn, res.Status)
	assert.NotNil(t, res.CheckedInAt)
}

func TestBookingService_TransitionStatusSameStatusIsNoop(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusConfirmed, model.PaymentPaid), nil)

	res, err := f.svc.TransitionStatus(context.Background(), bookingUUID, model.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, res.Status)
}

func TestBookingService_TransitionStatusRejectsInvalidMove(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusCheckedOut, model.PaymentPaid), nil)

	_, err := f.svc.TransitionStatus(context.Background(), bookingUUID, model.StatusCancelled)
	assert.Equal(t, http.StatusConflict, failureCode(t, err))

	_, err = f.svc.TransitionStatus(context.Background(), bookingUUID, "archived")
	assert.Equal(t, http.StatusBadRequest, failureCode(t, err))
}

func TestBookingService_TransitionStatusRollsBack(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusPending, model.PaymentAwaitingPayment), nil)
	f.repo.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.eventRepo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

	_, err := f.svc.TransitionStatus(context.Background(), bookingUUID, model.StatusConfirmed)
	assert.Error(t, err)
}

func TestBookingService_MarkPaid(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusPending, model.PaymentAwaitingPayment), nil)
	f.repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, changes map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, model.PaymentPaid, changes[model.FieldPaymentStatus])
			assert.NotContains(t, changes, model.FieldStatus)

			return nil
		})
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	res, err := f.svc.MarkPaid(context.Background(), bookingUUID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, res.PaymentStatus)
	assert.Equal(t, model.StatusPending, res.Status)
}

func TestBookingService_MarkPaidIsIdempotent(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusConfirmed, model.PaymentPaid), nil)

	res, err := f.svc.MarkPaid(context.Background(), bookingUUID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, res.PaymentStatus)
}

func TestBookingService_Update(t *testing.T) {
	f := newFixture(t)

	checkOut := "2024-01-20"
	updated := storedBooking(model.StatusPending, model.PaymentAwaitingPayment)
	updated.CheckOut = time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	updated.Nights = 5

	gomock.InOrder(
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusPending, model.PaymentAwaitingPayment), nil),
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, changes map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, 5, changes[model.FieldNights])
				assert.NotContains(t, changes, model.FieldBookingID)

				return nil
			}),
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(updated, nil),
	)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

	res, err := f.svc.Update(context.Background(), bookingUUID, dto.UpdateBookingRequest{CheckOut: &checkOut})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Nights)
	assert.Equal(t, "2024-01-20", res.CheckOut)
}

func TestBookingService_UpdateRejectsMovingOutOfScope(t *testing.T) {
	f := newFixture(t)

	property := "limuru"

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusPending, model.PaymentAwaitingPayment), nil)

	_, err := f.svc.Update(asCaller(constant.RoleManager, "kanamai"), bookingUUID, dto.UpdateBookingRequest{Property: &property})
	assert.Equal(t, http.StatusForbidden, failureCode(t, err))
}

func TestBookingService_History(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedBooking(model.StatusConfirmed, model.PaymentPaid), nil)
	f.eventRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.StatusEvent{
			{ID: "e1", BookingID: bookingUUID, FromStatus: model.StatusPending, ToStatus: model.StatusConfirmed, CreatedBy: "user-1"},
		}, nil)

	res, err := f.svc.History(context.Background(), bookingUUID)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Confirmed", res[0].Badge.Label)
}
