// Package taskservice is the synchronous client for the remote task-owning
// service. It performs the cascade delete call and maps transport/HTTP
// failures into the domain error taxonomy. No retries happen here; retry
// policy is a caller concern.
package taskservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	imrocreq "github.com/imroc/req/v3"

	"github.com/teamtacles/teamtacles-api/internal/apperror"
	"github.com/teamtacles/teamtacles-api/pkg/config"
)

// Interface is what the project lifecycle consumes.
type Interface interface {
	DeleteAllTasksFromProject(ctx context.Context, projectID uint, token string) error
}

type Client struct {
	req *imrocreq.Client
}

// NewClient builds the client with the configured connect and read timeouts.
// Both bounds are required settings; an unbounded cascade call would let one
// slow delete exhaust a request-handling goroutine.
func NewClient(conf *config.Config) *Client {
	dialer := &net.Dialer{
		Timeout: time.Duration(conf.TaskService.ConnectTimeoutSecond) * time.Second,
	}
	client := imrocreq.C().
		SetBaseURL(conf.TaskService.URL).
		SetTimeout(time.Duration(conf.TaskService.ReadTimeoutSecond) * time.Second).
		SetDial(dialer.DialContext)
	return &Client{req: client}
}

// DeleteAllTasksFromProject asks the task service to remove every task of
// the project, forwarding the caller's bearer credential so the remote side
// applies its own authorization.
//
// Failure mapping, externally observable and fixed:
//
//	403, 404      -> AccessDenied (remote denial or already gone; the local
//	                 project still exists, so this is not a local NotFound)
//	503           -> ServiceUnavailable (transient, safe to retry later)
//	other 5xx     -> RemoteOperationFailed
//	transport err -> NetworkError
func (c *Client) DeleteAllTasksFromProject(ctx context.Context, projectID uint, token string) error {
	resp, err := c.req.R().
		SetContext(ctx).
		SetBearerAuthToken(token).
		Delete(fmt.Sprintf("/api/project/%d/tasks", projectID))
	if err != nil {
		return apperror.Wrap(apperror.NetworkError,
			"network communication error with the task service", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound:
		return apperror.Newf(apperror.AccessDenied,
			"permission denied to delete tasks for project %d", projectID)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return apperror.New(apperror.ServiceUnavailable,
			"the task service is temporarily unavailable")
	case resp.StatusCode >= http.StatusInternalServerError:
		return apperror.New(apperror.RemoteOperationFailed,
			"the task service failed to complete the deletion request")
	case resp.IsErrorState():
		return apperror.Newf(apperror.NetworkError,
			"unexpected task service response: %s", resp.Status)
	}
	return nil
}
