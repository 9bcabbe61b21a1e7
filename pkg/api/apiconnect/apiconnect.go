// Package apiconnect wires the apex.v1 services to connect handlers and
// clients. It follows the layout of connect-go generated code, with the
// JSON codec from package api in place of protobuf.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/apexdigital/apex/pkg/api"
)

// Fully-qualified service names.
const (
	AuthServiceName    = "apex.v1.AuthService"
	ProjectServiceName = "apex.v1.ProjectService"
	PaymentServiceName = "apex.v1.PaymentService"
	AdminServiceName   = "apex.v1.AdminService"
)

// Procedure paths, usable with connect.Spec.Procedure and as mux routes.
const (
	AuthServiceRegisterProcedure       = "/apex.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/apex.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/apex.v1.AuthService/GetCurrentUser"

	ProjectServiceCreateProjectProcedure = "/apex.v1.ProjectService/CreateProject"
	ProjectServiceListProjectsProcedure  = "/apex.v1.ProjectService/ListProjects"
	ProjectServiceGetProjectProcedure    = "/apex.v1.ProjectService/GetProject"
	ProjectServiceStartProjectProcedure  = "/apex.v1.ProjectService/StartProject"

	PaymentServiceRecordPaymentProcedure = "/apex.v1.PaymentService/RecordPayment"
	PaymentServiceListPaymentsProcedure  = "/apex.v1.PaymentService/ListPayments"

	AdminServiceDashboardStatsProcedure = "/apex.v1.AdminService/DashboardStats"
	AdminServiceListUsersProcedure      = "/apex.v1.AdminService/ListUsers"
)

// PublicProcedures may be called without a session token.
var PublicProcedures = []string{
	AuthServiceRegisterProcedure,
	AuthServiceLoginProcedure,
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}
