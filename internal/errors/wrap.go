package errors

import "fmt"

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage:
//
//	if err := client.UpdateIssue(ctx, key, body); err != nil {
//	    return errors.Wrap(err, "failed to update test case")
//	}
//
// The wrapped error keeps the original chain, so errors.Is() checks against
// sentinels such as ErrTrackerRequest keep working.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context to errors at package boundaries.
// It returns nil if err is nil.
//
//	return errors.Wrapf(errors.ErrNonTestCaseWithinRun, "%s has no sub-task for %s", runKey, id)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", msg, err)
}
