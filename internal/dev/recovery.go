package dev

import (
	"os"
	"path/filepath"
	"strings"
)

// ErrorRecovery handles automatic recovery from common build errors.
//
// This runtime has no generated-route file to regenerate, so the only
// recoverable case here is a stale logic-manifest reference (the
// build-time transform writes new ids into logic-manifest.json on every
// build, so retrying after a logic module is added or removed usually
// clears it on its own).
type ErrorRecovery struct {
	projectDir string
	logicDir   string
}

// NewErrorRecovery creates a new error recovery handler.
func NewErrorRecovery(projectDir, logicDir string) *ErrorRecovery {
	return &ErrorRecovery{
		projectDir: projectDir,
		logicDir:   logicDir,
	}
}

// RecoveryResult contains the result of an attempted recovery.
type RecoveryResult struct {
	// Recovered indicates if recovery was successful.
	Recovered bool

	// Action describes what was done.
	Action string

	// Details provides additional information.
	Details string
}

// AttemptRecovery tries to automatically fix common build errors.
// The result's Recovered field is true if a fix was applied and the
// build should be retried.
func (r *ErrorRecovery) AttemptRecovery(buildOutput string) RecoveryResult {
	if result := r.recoverFromStaleLogicManifest(buildOutput); result.Recovered {
		return result
	}
	return RecoveryResult{Recovered: false}
}

// recoverFromStaleLogicManifest clears a logic-manifest.json left over
// from a previous build whose source file was deleted or renamed, so
// the next build starts from an empty manifest instead of resolving a
// stale id.
func (r *ErrorRecovery) recoverFromStaleLogicManifest(buildOutput string) RecoveryResult {
	if !strings.Contains(buildOutput, "logic-manifest.json") && !strings.Contains(buildOutput, "logic_") {
		return RecoveryResult{Recovered: false}
	}

	manifestPath := filepath.Join(r.projectDir, "dist", "logic-manifest.json")
	if err := os.Remove(manifestPath); err != nil && !os.IsNotExist(err) {
		return RecoveryResult{
			Recovered: false,
			Details:   "failed to remove stale logic-manifest.json: " + err.Error(),
		}
	}

	return RecoveryResult{
		Recovered: true,
		Action:    "cleared logic-manifest.json",
		Details:   "a logic module was likely renamed or removed since the last build",
	}
}

// IsRecoverableError checks if a build error might be recoverable.
func IsRecoverableError(buildOutput string) bool {
	return strings.Contains(buildOutput, "logic-manifest.json") || strings.Contains(buildOutput, "logic_")
}

// GetModulePath reads the module path from go.mod.
func GetModulePath(projectDir string) (string, error) {
	goModPath := filepath.Join(projectDir, "go.mod")
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return "", err
	}

	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimPrefix(line, "module "), nil
		}
	}

	return "", nil
}
