package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/apexdigital/apex/internal/apperr"
	"github.com/apexdigital/apex/internal/calculator"
	"github.com/apexdigital/apex/internal/metrics"
	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/internal/payment"
	"github.com/apexdigital/apex/internal/storage"
	"github.com/apexdigital/apex/pkg/api"
	"github.com/apexdigital/apex/pkg/api/apiconnect"
)

// PaymentService implements the PaymentService RPC interface.
type PaymentService struct {
	store     storage.Store
	processor *payment.Processor
	logger    *slog.Logger
	now       func() time.Time
}

// NewPaymentService creates a payment service.
func NewPaymentService(store storage.Store, processor *payment.Processor, logger *slog.Logger) *PaymentService {
	return &PaymentService{
		store:     store,
		processor: processor,
		logger:    logger,
		now:       time.Now,
	}
}

// RecordPayment charges the caller through the configured gateway and, on
// success, records the payment with its fund distribution. A declined
// payment records nothing.
func (s *PaymentService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	p, err := s.recordPayment(ctx, req.Msg)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.PaymentServiceRecordPaymentProcedure, err)
	}
	return connect.NewResponse(&api.RecordPaymentResponse{
		Success: true,
		Payment: toAPIPayment(p),
		Message: "payment processed and distributed",
	}), nil
}

func (s *PaymentService) recordPayment(ctx context.Context, msg *api.RecordPaymentRequest) (*models.Payment, error) {
	user, err := currentUser(ctx, s.store)
	if err != nil {
		return nil, err
	}

	gateway := s.processor.Gateway().Name()
	outcome, err := s.processor.Process(ctx, msg.Amount.Decimal, msg.Currency, payment.Payer{
		UserID:        user.ID,
		Email:         user.Email,
		Name:          user.Name,
		PaymentMethod: msg.PaymentMethod,
		Metadata:      msg.Metadata,
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordPayment(gateway, outcome.Success)
	if !outcome.Success {
		s.logger.Warn("Payment declined", "user_id", user.ID, "gateway", gateway, "message", outcome.Message)
		return nil, apperr.New(apperr.KindPaymentFailed, "payment failed: %s", outcome.Message)
	}

	dist, err := calculator.Distribute(outcome.Amount)
	if err != nil {
		return nil, err
	}

	now := s.now().Unix()
	p := &models.Payment{
		UserID:        user.ID,
		Amount:        outcome.Amount,
		Currency:      outcome.Currency,
		TransactionID: outcome.TransactionID,
		Status:        models.PaymentCompleted,
		CreatedAt:     now,
		AIUpgrade:     dist.AIUpgrade,
		ReserveFund:   dist.ReserveFund,
		OwnerRevenue:  dist.OwnerRevenue,
		DistributedAt: now,
	}
	if err := s.store.CreatePayment(ctx, p); err != nil {
		// The gateway has already taken the money; the transaction id in
		// the log is what reconciles it.
		if errors.Is(err, storage.ErrDuplicateTransaction) {
			s.logger.Error("Duplicate transaction id from gateway", "transaction_id", p.TransactionID)
		}
		return nil, apperr.Wrap(apperr.KindPersistence, err, "failed to record payment %s", p.TransactionID)
	}

	metrics.RecordDistribution(p.Currency,
		dist.AIUpgrade.InexactFloat64(),
		dist.ReserveFund.InexactFloat64(),
		dist.OwnerRevenue.InexactFloat64(),
	)
	s.logger.Info("Payment recorded",
		"payment_id", p.ID,
		"transaction_id", p.TransactionID,
		"amount", p.Amount.StringFixed(2),
		"currency", p.Currency,
	)
	return p, nil
}

// ListPayments returns the caller's payments, newest first.
func (s *PaymentService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	user, err := currentUser(ctx, s.store)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.PaymentServiceListPaymentsProcedure, err)
	}

	payments, err := s.store.ListPaymentsByUser(ctx, user.ID)
	if err != nil {
		return nil, toConnectError(s.logger, apiconnect.PaymentServiceListPaymentsProcedure,
			apperr.Wrap(apperr.KindPersistence, err, "failed to list payments"))
	}

	out := make([]api.Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, *toAPIPayment(p))
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}
