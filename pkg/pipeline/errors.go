package pipeline

import (
	"errors"
	"fmt"

	"github.com/vinscope/vinscope/pkg/report"
	"github.com/vinscope/vinscope/pkg/search"
)

// UsageError means the caller supplied no identifier; the run never starts.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	if e.Reason == "" {
		return "no identifier supplied"
	}
	return e.Reason
}

// ConfigError means a required collaborator credential or setting is
// missing. It is raised before the offending stage performs any network
// call.
type ConfigError struct {
	Stage string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("stage %s: configuration: %v", e.Stage, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ExternalServiceError means a collaborator call failed (timeout, non-2xx
// status, unparsable payload). It carries the failing stage name and the
// underlying cause.
type ExternalServiceError struct {
	Stage string
	Err   error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// classifyStageError annotates a stage failure with its stage name.
// Credential failures from the collaborators become ConfigError; everything
// else is an ExternalServiceError.
func classifyStageError(stage string, err error) error {
	var searchCred *search.CredentialError
	var reportCred *report.CredentialError
	if errors.As(err, &searchCred) || errors.As(err, &reportCred) {
		return &ConfigError{Stage: stage, Err: err}
	}
	return &ExternalServiceError{Stage: stage, Err: err}
}
