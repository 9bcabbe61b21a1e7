package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/apexdigital/apex/pkg/api"
)

// PaymentServiceClient is a client for the apex.v1.PaymentService service.
type PaymentServiceClient interface {
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
}

// NewPaymentServiceClient constructs a client for the
// apex.v1.PaymentService service.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	opts = clientOptions(opts)
	return &paymentServiceClient{
		recordPayment: connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](
			httpClient, baseURL+PaymentServiceRecordPaymentProcedure, opts...,
		),
		listPayments: connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](
			httpClient, baseURL+PaymentServiceListPaymentsProcedure, opts...,
		),
	}
}

type paymentServiceClient struct {
	recordPayment *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	listPayments  *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
}

func (c *paymentServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

// PaymentServiceHandler is implemented by the server for
// apex.v1.PaymentService.
type PaymentServiceHandler interface {
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
}

// NewPaymentServiceHandler builds an HTTP handler from the service
// implementation.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	recordPayment := connect.NewUnaryHandler(PaymentServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	listPayments := connect.NewUnaryHandler(PaymentServiceListPaymentsProcedure, svc.ListPayments, opts...)
	return "/" + PaymentServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PaymentServiceRecordPaymentProcedure:
			recordPayment.ServeHTTP(w, r)
		case PaymentServiceListPaymentsProcedure:
			listPayments.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}
