package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Payment=MockPaymentService

import (
	"context"
	"fmt"
	"jumuia/infras/daraja"
	"jumuia/infras/otel"
	bookingModel "jumuia/internal/domains/booking/model"
	bookingRepository "jumuia/internal/domains/booking/repository"
	bookingService "jumuia/internal/domains/booking/service"
	notificationModel "jumuia/internal/domains/notification/model"
	notification "jumuia/internal/domains/notification/service"
	"jumuia/internal/domains/payment/model"
	"jumuia/internal/domains/payment/model/dto"
	"jumuia/internal/domains/payment/repository"
	"jumuia/shared"
	"jumuia/shared/cache"
	"jumuia/shared/constant"
	gDto "jumuia/shared/dto"
	"jumuia/shared/failure"
	sharedModel "jumuia/shared/model"
	"jumuia/shared/phone"
	"jumuia/shared/timezone"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	actorGateway = "mpesa"

	msgPaymentFailed = "payment processing failed"
)

type Payment interface {
	Initiate(ctx context.Context, req dto.InitiateRequest) (dto.InitiateResponse, error)
	HandleCallback(ctx context.Context, callback daraja.Callback) error
	CheckStatus(ctx context.Context, checkoutRequestID string) (dto.StatusResponse, error)
}

type serviceImpl struct {
	repo        repository.Payment
	bookingRepo bookingRepository.Booking
	gateway     daraja.Client
	publisher   notification.Publisher
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Payment,
	bookingRepo bookingRepository.Booking,
	gateway daraja.Client,
	publisher notification.Publisher,
	cache cache.RedisCache,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		gateway:     gateway,
		publisher:   publisher,
		cache:       cache,
		otel:        otel,
	}
}

// outcome is the gateway's verdict on one checkout request.
type outcome struct {
	succeeded       bool
	resultCode      int
	resultDesc      string
	receiptNumber   string
	amount          decimal.Decimal
	transactionDate *time.Time
}

func (s *serviceImpl) Initiate(ctx context.Context, req dto.InitiateRequest) (res dto.InitiateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Initiate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	msisdn, err := phone.Normalize(req.PhoneNumber)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if !req.Amount.IsPositive() {
		return res, failure.BadRequestFromString("amount must be greater than zero") //nolint:wrapcheck
	}

	if !req.Amount.Equal(req.Amount.Truncate(0)) {
		return res, failure.BadRequestFromString("amount must be a whole number of shillings") //nolint:wrapcheck
	}

	booking, err := s.findBooking(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	if booking.PaymentStatus == bookingModel.PaymentPaid {
		return res, failure.Conflict("booking is already paid") //nolint:wrapcheck
	}

	pushed, err := s.gateway.STKPush(ctx, daraja.STKPushRequest{
		PhoneNumber:      msisdn,
		Amount:           req.Amount,
		AccountReference: booking.BookingID,
		TransactionDesc:  model.TransactionDesc,
	})
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.BookingID).Msg("stk push failed")

		return res, failure.BadGateway(msgPaymentFailed) //nolint:wrapcheck
	}

	if !pushed.Accepted() {
		log.Error().
			Str("booking_id", booking.BookingID).
			Str("response_code", pushed.ResponseCode).
			Str("response_description", pushed.ResponseDescription).
			Msg("stk push rejected")

		return res, failure.BadGateway(msgPaymentFailed) //nolint:wrapcheck
	}

	now := timezone.Now()
	actor := shared.CallerFromContext(ctx).Actor()

	payment := model.Payment{
		ID:                uuid.NewString(),
		BookingID:         booking.ID,
		PhoneNumber:       msisdn,
		Amount:            req.Amount,
		CheckoutRequestID: pushed.CheckoutRequestID,
		MerchantRequestID: pushed.MerchantRequestID,
		Status:            model.StatusPending,
		Metadata:          sharedModel.NewMetadata(actor, now),
	}

	err = s.repo.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, sqltx, payment); err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}

		changes := map[string]any{
			bookingModel.FieldPaymentStatus: bookingModel.PaymentPending,
			constant.FieldModifiedAt:        now,
			constant.FieldModifiedBy:        actor,
		}

		if err := s.bookingRepo.UpdateTx(ctx, sqltx, changes, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
			return fmt.Errorf("failed to mark booking payment pending: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("checkout_request_id", pushed.CheckoutRequestID).Msg("failed to store payment request")

		return res, err
	}

	booking.PaymentStatus = bookingModel.PaymentPending
	s.publisher.Publish(ctx, bookingService.NewEvent(notificationModel.EventBookingUpdated, booking, constant.Empty))
	s.invalidate(ctx, booking.ID)

	res = dto.InitiateResponse{
		CheckoutRequestID: pushed.CheckoutRequestID,
		MerchantRequestID: pushed.MerchantRequestID,
		CustomerMessage:   pushed.CustomerMessage,
		Status:            model.StatusPending,
	}

	return res, nil
}

// HandleCallback settles the payment named by the callback. Callbacks for settled payments are ignored.
func (s *serviceImpl) HandleCallback(ctx context.Context, callback daraja.Callback) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleCallback")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	stk := callback.Body.StkCallback
	if stk == nil || stk.CheckoutRequestID == constant.Empty {
		return failure.BadRequestFromString("malformed callback") //nolint:wrapcheck
	}

	result := outcome{
		succeeded:  stk.Succeeded(),
		resultCode: stk.ResultCode,
		resultDesc: stk.ResultDesc,
	}

	if result.succeeded {
		result.receiptNumber = stk.CallbackMetadata.String(model.ItemReceiptNumber)
		result.amount = stk.CallbackMetadata.Decimal(model.ItemAmount)
		result.transactionDate = transactionDate(stk.CallbackMetadata.String(model.ItemTransactionDate))
	}

	_, err = s.settle(ctx, stk.CheckoutRequestID, result)

	return err
}

func (s *serviceImpl) CheckStatus(ctx context.Context, checkoutRequestID string) (res dto.StatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	payment, err := s.repo.Get(ctx, checkoutFilter(checkoutRequestID))
	if err != nil {
		log.Error().Err(err).Str("checkout_request_id", checkoutRequestID).Msg("failed to get payment")

		return res, fmt.Errorf("failed to get payment: %w", err)
	}

	if payment.ID == constant.Empty {
		return res, failure.NotFound("payment not found") //nolint:wrapcheck
	}

	if payment.Final() {
		res.FromModel(payment)

		return res, nil
	}

	queried, err := s.gateway.STKQuery(ctx, checkoutRequestID)
	if err != nil {
		log.Error().Err(err).Str("checkout_request_id", checkoutRequestID).Msg("stk query failed")

		return res, failure.BadGateway(msgPaymentFailed) //nolint:wrapcheck
	}

	if !queried.Completed() {
		res.FromModel(payment)

		return res, nil
	}

	settled, err := s.settle(ctx, checkoutRequestID, outcome{
		succeeded:  true,
		resultCode: 0,
		resultDesc: queried.ResultDesc,
	})
	if err != nil {
		return res, err
	}

	res.FromModel(settled)

	return res, nil
}

// settle records the gateway outcome on the payment and its booking in one transaction.
func (s *serviceImpl) settle(ctx context.Context, checkoutRequestID string, result outcome) (model.Payment, error) {
	var (
		payment model.Payment
		booking bookingModel.Booking
		changed bool
	)

	now := timezone.Now()

	err := s.repo.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		current, err := s.repo.GetTx(ctx, sqltx, checkoutFilter(checkoutRequestID))
		if err != nil {
			return fmt.Errorf("failed to get payment: %w", err)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("payment not found") //nolint:wrapcheck
		}

		payment = current
		if current.Final() {
			return nil
		}

		booking, err = s.bookingRepo.GetTx(ctx, sqltx, shared.FilterByID(current.BookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		status, bookingStatus := model.StatusFailed, bookingModel.PaymentFailed
		if result.succeeded {
			status, bookingStatus = model.StatusCompleted, bookingModel.PaymentPaid
		}

		changes := map[string]any{
			model.FieldStatus:        status,
			model.FieldResultCode:    result.resultCode,
			model.FieldResultDesc:    result.resultDesc,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: actorGateway,
		}

		if result.receiptNumber != constant.Empty {
			changes[model.FieldReceiptNumber] = result.receiptNumber
		}

		if result.transactionDate != nil {
			changes[model.FieldTransactionDate] = *result.transactionDate
		}

		if err = s.repo.UpdateTx(ctx, sqltx, changes, shared.FilterByID(current.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		if booking.ID != constant.Empty {
			bookingChanges := map[string]any{
				bookingModel.FieldPaymentStatus: bookingStatus,
				constant.FieldModifiedAt:        now,
				constant.FieldModifiedBy:        actorGateway,
			}

			if err = s.bookingRepo.UpdateTx(ctx, sqltx, bookingChanges, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName)); err != nil {
				return fmt.Errorf("failed to update booking payment status: %w", err)
			}

			booking.PaymentStatus = bookingStatus
		}

		code := result.resultCode
		payment.Status = status
		payment.ResultCode = &code
		payment.ResultDesc = result.resultDesc
		payment.ReceiptNumber = result.receiptNumber
		payment.TransactionDate = result.transactionDate
		changed = true

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("checkout_request_id", checkoutRequestID).Msg("failed to settle payment")

		return payment, err
	}

	if !changed {
		log.Info().Str("checkout_request_id", checkoutRequestID).Str("status", payment.Status).Msg("payment already settled")

		return payment, nil
	}

	if !result.amount.IsZero() && !result.amount.Equal(payment.Amount) {
		log.Warn().
			Str("checkout_request_id", checkoutRequestID).
			Str("requested", payment.Amount.String()).
			Str("paid", result.amount.String()).
			Msg("paid amount differs from requested amount")
	}

	if booking.ID != constant.Empty {
		if result.succeeded {
			event := bookingService.NewEvent(notificationModel.EventPaymentConfirmed, booking, constant.Empty)
			event.ReceiptNumber = result.receiptNumber
			s.publisher.Publish(ctx, event)
		} else {
			s.publisher.Publish(ctx, bookingService.NewEvent(notificationModel.EventBookingUpdated, booking, constant.Empty))
		}

		s.invalidate(ctx, booking.ID)
	}

	return payment, nil
}

// findBooking resolves a booking uuid or booking code.
func (s *serviceImpl) findBooking(ctx context.Context, id string) (bookingModel.Booking, error) {
	var filter gDto.FilterGroup

	switch {
	case uuid.Validate(id) == nil:
		filter = shared.FilterByID(id, bookingModel.FieldID, bookingModel.TableName)
	case bookingModel.CodePattern.MatchString(id):
		filter = shared.FilterByField(bookingModel.FieldBookingID, bookingModel.TableName, id)
	default:
		return bookingModel.Booking{}, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	booking, err := s.bookingRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		bookingService.InvalidateCaches(context.WithoutCancel(ctx), s.cache, id)
	}()
}

func checkoutFilter(checkoutRequestID string) gDto.FilterGroup {
	return shared.FilterByField(model.FieldCheckoutRequestID, model.TableName, checkoutRequestID)
}

// transactionDate parses the gateway's YYYYMMDDHHmmss stamp, which is Nairobi local time.
func transactionDate(value string) *time.Time {
	if value == constant.Empty {
		return nil
	}

	parsed, err := time.ParseInLocation(constant.DarajaTimeFmt, value, timezone.Gateway())
	if err != nil {
		log.Warn().Err(err).Str("transaction_date", value).Msg("failed to parse transaction date")

		return nil
	}

	return &parsed
}
