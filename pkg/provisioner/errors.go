package provisioner

import (
	"context"
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	mdberrors "github.com/mongodb/mongodb-kube-provisioner/pkg/errors"
	"github.com/mongodb/mongodb-kube-provisioner/pkg/resources"
)

// APIError is a failed cluster API call.
// It unwraps to the client-go error, so apierrors.IsAlreadyExists and friends keep working.
type APIError struct {
	Operation  string
	Kind       resources.Kind
	Name       string
	StatusCode int
	Reason     metav1.StatusReason
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s %q failed (%d %s): %s", e.Operation, e.Kind, e.Name, e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s %s %q failed: %s", e.Operation, e.Kind, e.Name, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Code classifies the failure.
func (e *APIError) Code() mdberrors.ErrorCode {
	if e.StatusCode != 0 {
		return mdberrors.CodeFromHTTPStatus(e.StatusCode)
	}
	switch {
	case errors.Is(e.Err, context.DeadlineExceeded):
		return mdberrors.ErrCodeTimeout
	case errors.Is(e.Err, context.Canceled):
		return mdberrors.ErrCodeUnavailable
	default:
		return mdberrors.ErrCodeInternal
	}
}

func newAPIError(op string, kind resources.Kind, name string, err error) error {
	if err == nil {
		return nil
	}

	var existing *APIError
	if errors.As(err, &existing) {
		return err
	}

	ae := &APIError{
		Operation: op,
		Kind:      kind,
		Name:      name,
		Message:   err.Error(),
		Err:       err,
	}

	var status apierrors.APIStatus
	if errors.As(err, &status) {
		s := status.Status()
		ae.StatusCode = int(s.Code)
		ae.Reason = s.Reason
		if s.Message != "" {
			ae.Message = s.Message
		}
	}
	return ae
}
