package school

import "errors"

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrStorageUnavailable means the persistence medium could not be read or written.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorruptState means the persisted dataset could not be decoded; resetting the store recovers from it.
	ErrCorruptState = errors.New("corrupt state")
)
