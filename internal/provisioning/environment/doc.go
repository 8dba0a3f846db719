// Package environment reconciles the Container Apps managed environment
// to a ready state.
//
// The managed environment is observe-only: there are no push
// notifications, the true state may change between observation and
// action, and a Failed environment cannot be repaired in place. The
// reconciler therefore treats Failed and ScheduledForDelete as
// delete-then-recreate at any point, including after the waiting has
// already begun.
package environment
