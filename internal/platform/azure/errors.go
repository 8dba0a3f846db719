package azure

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// TransientError wraps an ARM API failure that does not indicate absence
// of the resource: auth failures, throttling, transport errors. It is
// propagated to the caller unchanged; the reconciliation loop never
// retries transient faults itself.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient fault during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient checks if an error is a wrapped transient ARM fault.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsNotFound checks if an error indicates the requested resource does
// not exist. Absence is mapped to StateNotFound by callers, never
// surfaced as an error.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	if respErr.StatusCode == http.StatusNotFound {
		return true
	}

	switch respErr.ErrorCode {
	case "ResourceNotFound", "ResourceGroupNotFound", "ManagedEnvironmentNotFound", "ContainerAppNotFound":
		return true
	}
	return false
}

// IsConflict checks if an error indicates a concurrent modification
// conflict on the ARM side.
func IsConflict(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusConflict
	}
	return false
}
