package environment

import (
	"fmt"

	"github.com/imamik/azship/internal/platform/azure"
)

// ProvisioningTimeoutError is returned when the environment never
// reached Succeeded within the provisioning budget. It carries the last
// observed state and the attempt count for diagnosis.
type ProvisioningTimeoutError struct {
	Environment string
	LastState   azure.ProvisioningState
	Attempts    int
}

func (e *ProvisioningTimeoutError) Error() string {
	return fmt.Sprintf("environment %s not ready after %d observations, last state %s",
		e.Environment, e.Attempts, e.LastState)
}

// DeletionTimeoutError is returned when a deleted environment never
// disappeared within the deletion budget. No create is attempted after
// this error.
type DeletionTimeoutError struct {
	Environment string
	LastState   azure.ProvisioningState
	Attempts    int
}

func (e *DeletionTimeoutError) Error() string {
	return fmt.Sprintf("environment %s still present after %d deletion observations, last state %s",
		e.Environment, e.Attempts, e.LastState)
}
