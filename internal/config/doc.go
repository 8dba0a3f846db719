// Package config defines the azship deployment spec, its YAML loader
// and validation, the environment-tunable timeouts and retry budgets,
// and the interactive wizard behind "azship init".
package config
