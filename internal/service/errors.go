package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/apexdigital/apex/internal/apperr"
	"github.com/apexdigital/apex/pkg/api"
)

var kindCodes = map[apperr.Kind]connect.Code{
	apperr.KindValidation:         connect.CodeInvalidArgument,
	apperr.KindDuplicateEmail:     connect.CodeAlreadyExists,
	apperr.KindInvalidCredentials: connect.CodeUnauthenticated,
	apperr.KindUnknownService:     connect.CodeInvalidArgument,
	apperr.KindUnauthorized:       connect.CodePermissionDenied,
	apperr.KindPaymentFailed:      connect.CodeFailedPrecondition,
	apperr.KindNotFound:           connect.CodeNotFound,
	apperr.KindPersistence:        connect.CodeInternal,
	apperr.KindRateLimited:        connect.CodeResourceExhausted,
}

// toConnectError converts a domain error into a connect error carrying the
// kind in the Error-Kind header. Persistence failures are logged with their
// cause and reported to the caller as "internal error".
func toConnectError(logger *slog.Logger, procedure string, err error) error {
	kind := apperr.KindOf(err)
	code, ok := kindCodes[kind]
	if !ok {
		code = connect.CodeInternal
	}
	if kind == apperr.KindPersistence {
		logger.Error("Internal error", "procedure", procedure, "error", err)
	}

	connectErr := connect.NewError(code, errors.New(apperr.MessageOf(err)))
	connectErr.Meta().Set(api.ErrorKindHeader, string(kind))
	return connectErr
}

// ErrorKind returns the kind reported by a server error, or "" if err did
// not come from a service in this package.
func ErrorKind(err error) apperr.Kind {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ""
	}
	return apperr.Kind(connectErr.Meta().Get(api.ErrorKindHeader))
}
