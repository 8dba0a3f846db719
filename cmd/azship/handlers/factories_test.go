package handlers

import "testing"

// saveAndRestoreFactories snapshots every injectable factory and restores
// it when the test finishes, so tests can swap them freely.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()

	origNewAzureClient := newAzureClient
	origLoadSpecFile := loadSpecFile
	origFindConfigFile := findConfigFile
	origLoadTimeouts := loadTimeouts
	origNewObserver := newObserver
	origFileExists := fileExists
	origRunWizard := runWizard
	origWriteSpecFile := writeSpecFile

	t.Cleanup(func() {
		newAzureClient = origNewAzureClient
		loadSpecFile = origLoadSpecFile
		findConfigFile = origFindConfigFile
		loadTimeouts = origLoadTimeouts
		newObserver = origNewObserver
		fileExists = origFileExists
		runWizard = origRunWizard
		writeSpecFile = origWriteSpecFile
	})
}
