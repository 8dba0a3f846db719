// Package provisioning provides shared types and interfaces for the
// deployment pipeline.
//
// The pipeline is organized into focused subpackages, run in order:
//   - infrastructure/ — resource group and registry credentials
//   - environment/ — managed environment reconciliation
//   - app/ — container app create-or-update and readiness
//   - verify/ — best-effort post-deploy probe, log tail, and archive
//
// This root package contains the Phase interface, the shared Context and
// State passed between phases, and the Observer used for progress
// reporting.
package provisioning
