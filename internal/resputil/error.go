package resputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamtacles/teamtacles-api/internal/apperror"
)

// AppError is the single point where the closed error-kind enumeration is
// mapped to transport status codes. Gateway failures surface as server-side
// statuses because the original caller did not directly cause them.
func AppError(c *gin.Context, err error) {
	msg := err.Error()
	switch apperror.KindOf(err) {
	case apperror.NotFound:
		HTTPError(c, http.StatusNotFound, msg, ResourceNotFound)
	case apperror.Forbidden:
		HTTPError(c, http.StatusForbidden, msg, UserNotAllowed)
	case apperror.Conflict:
		HTTPError(c, http.StatusConflict, msg, DuplicateResource)
	case apperror.InvalidRequest:
		HTTPError(c, http.StatusBadRequest, msg, InvalidRequest)
	case apperror.AccessDenied:
		HTTPError(c, http.StatusBadGateway, msg, RemoteAccessDenied)
	case apperror.ServiceUnavailable:
		HTTPError(c, http.StatusServiceUnavailable, msg, RemoteUnavailable)
	case apperror.RemoteOperationFailed:
		HTTPError(c, http.StatusBadGateway, msg, RemoteFailed)
	case apperror.NetworkError:
		HTTPError(c, http.StatusBadGateway, msg, RemoteNetwork)
	default:
		Error(c, msg, NotSpecified)
	}
}
