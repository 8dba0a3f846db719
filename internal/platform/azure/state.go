package azure

// ProvisioningState is the normalized observed state of an Azure
// resource. The raw ARM states are collapsed into the handful of values
// the reconciliation loop actually branches on; anything unrecognized
// maps to StateUnknown, which is treated as "keep waiting".
type ProvisioningState string

const (
	// StateNotFound means the resource does not exist. It is a valid
	// observation, not an error.
	StateNotFound ProvisioningState = "NotFound"
	// StateCreating covers all in-progress provisioning states.
	StateCreating ProvisioningState = "Creating"
	// StateSucceeded means the resource is ready for use.
	StateSucceeded ProvisioningState = "Succeeded"
	// StateFailed means provisioning failed terminally. A failed managed
	// environment cannot be repaired in place; it must be deleted and
	// recreated.
	StateFailed ProvisioningState = "Failed"
	// StateScheduledForDelete means the platform has marked the resource
	// for deletion. Like StateFailed it requires delete-then-recreate.
	StateScheduledForDelete ProvisioningState = "ScheduledForDelete"
	// StateDeleting means a deletion is in progress.
	StateDeleting ProvisioningState = "Deleting"
	// StateUnknown is any state this package does not recognize.
	StateUnknown ProvisioningState = "Unknown"
)

// NeedsRecreate reports whether the state requires the resource to be
// deleted before it can ever reach StateSucceeded again.
func (s ProvisioningState) NeedsRecreate() bool {
	return s == StateFailed || s == StateScheduledForDelete
}

// NormalizeEnvironmentState maps a raw ARM managed-environment
// provisioning state string to the normalized enum. Matching happens on
// the wire string rather than SDK constants so that states introduced by
// newer API versions degrade to StateUnknown instead of breaking.
func NormalizeEnvironmentState(raw string) ProvisioningState {
	switch raw {
	case "Succeeded":
		return StateSucceeded
	case "Failed", "Canceled", "UpgradeFailed":
		return StateFailed
	case "ScheduledForDelete":
		return StateScheduledForDelete
	case "Deleting":
		return StateDeleting
	case "Waiting", "InitializationInProgress", "InfrastructureSetupInProgress",
		"InfrastructureSetupComplete", "UpgradeRequested":
		return StateCreating
	default:
		return StateUnknown
	}
}

// NormalizeAppState maps a raw ARM container-app provisioning state
// string to the normalized enum.
func NormalizeAppState(raw string) ProvisioningState {
	switch raw {
	case "Succeeded":
		return StateSucceeded
	case "Failed", "Canceled":
		return StateFailed
	case "InProgress":
		return StateCreating
	case "Deleting":
		return StateDeleting
	default:
		return StateUnknown
	}
}
