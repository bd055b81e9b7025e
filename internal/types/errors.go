package types

import "fmt"

// CustomError carries an explicit HTTP status for errors raised inside
// middleware, where no handler gets a chance to map them.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// ValidationError reports malformed or missing caller input. It is always
// user-correctable and never retried automatically.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a reference to a nonexistent record id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.ID)
}

// AlreadyReviewedError is the idempotency guard of the review state
// machine: a second review of a terminal application is rejected, not
// silently accepted, so a double click cannot grant a role twice.
type AlreadyReviewedError struct {
	ID     string
	Status string
}

func (e *AlreadyReviewedError) Error() string {
	return fmt.Sprintf("application '%s' already reviewed (%s)", e.ID, e.Status)
}

// InvalidFormError reports a submission against an unknown or inactive
// application form.
type InvalidFormError struct {
	FormID string
}

func (e *InvalidFormError) Error() string {
	return fmt.Sprintf("invalid application type '%s'", e.FormID)
}

// IncompleteAnswersError reports a submission that left one or more of the
// form's custom questions unanswered.
type IncompleteAnswersError struct {
	Questions int
	Answered  int
}

func (e *IncompleteAnswersError) Error() string {
	return fmt.Sprintf("please answer all custom questions (%d of %d answered)", e.Answered, e.Questions)
}

// ConfigurationError reports a missing bot API setting. Operator-fixable,
// not user-fixable.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// TargetResolutionError reports that no target guild could be determined
// for an application, so there is nothing to grant the role in.
type TargetResolutionError struct {
	ApplicationID string
}

func (e *TargetResolutionError) Error() string {
	return fmt.Sprintf("missing target guild for application '%s'", e.ApplicationID)
}

// TransportError wraps a network-level failure reaching the bot API.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: bot API connection failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError reports that the bot API answered but did not confirm
// success: a non-2xx status or a body without an explicit ok flag.
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
