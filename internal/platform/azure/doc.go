// Package azure provides a wrapper around the Azure Resource Manager
// APIs used for Container Apps deployments: resource groups, managed
// environments, container apps, registry credentials, and Log Analytics
// queries.
//
// All mutating calls are asynchronous on the Azure side; this package
// fires them and leaves waiting to the provisioning layer, which polls
// observed state under explicit retry budgets.
package azure
