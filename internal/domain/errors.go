package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the frame",
		StatusCode: 422,
	}

	ErrFaceTooSmall = &AppError{
		Code:       "FACE_TOO_SMALL",
		Message:    "Detected face is too small for reliable embedding",
		StatusCode: 422,
	}

	ErrEyesNotOpen = &AppError{
		Code:       "EYES_NOT_OPEN",
		Message:    "Both eyes must be detected and open",
		StatusCode: 422,
	}

	ErrEmptyCrop = &AppError{
		Code:       "EMPTY_CROP",
		Message:    "Face bounding box is outside the frame",
		StatusCode: 422,
	}

	ErrZeroNormEmbedding = &AppError{
		Code:       "ZERO_NORM_EMBEDDING",
		Message:    "Embedding model produced a zero vector",
		StatusCode: 500,
	}

	ErrDetectorFailed = &AppError{
		Code:       "DETECTOR_FAILED",
		Message:    "Face detector invocation failed",
		StatusCode: 500,
	}

	ErrNoActiveSession = &AppError{
		Code:       "NO_ACTIVE_SESSION",
		Message:    "No active session identifier",
		StatusCode: 401,
	}

	ErrProfileNotFound = &AppError{
		Code:       "PROFILE_NOT_FOUND",
		Message:    "No stored face profile for this user",
		StatusCode: 404,
	}

	ErrProfileExists = &AppError{
		Code:       "PROFILE_ALREADY_EXISTS",
		Message:    "Face profile already registered for this user",
		StatusCode: 409,
	}

	ErrStoreUnavailable = &AppError{
		Code:       "STORE_UNAVAILABLE",
		Message:    "Profile store unreachable",
		StatusCode: 503,
	}

	ErrStudentNotFound = &AppError{
		Code:       "STUDENT_NOT_FOUND",
		Message:    "Student record not found",
		StatusCode: 404,
	}

	ErrAttendanceNotFound = &AppError{
		Code:       "ATTENDANCE_NOT_FOUND",
		Message:    "No attendance recorded for this day",
		StatusCode: 404,
	}
)
