package services

import (
	apperrors "github.com/lemartins07/english-assessment-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Session specific errors
	ErrSessionNotFound         = apperrors.New(apperrors.KindNotFound, "session not found")
	ErrSessionAlreadyFinalized = apperrors.New(apperrors.KindConflict, "session already finalized")
	ErrSessionIncomplete       = apperrors.New(apperrors.KindIncomplete, "session has unanswered questions")
	ErrSubmissionConflict      = apperrors.New(apperrors.KindConflict, "session was modified concurrently")
	ErrSessionNotFinalized     = apperrors.New(apperrors.KindConflict, "session is not finalized")

	// Blueprint / question specific errors
	ErrBlueprintNotFound = apperrors.New(apperrors.KindNotFound, "blueprint not found")
	ErrQuestionNotFound  = apperrors.New(apperrors.KindBadRequest, "question not part of blueprint")

	// Submission specific errors
	ErrQuestionAlreadyAnswered = apperrors.New(apperrors.KindConflict, "question already answered")
	ErrAnswerVariantMismatch   = apperrors.New(apperrors.KindBadRequest, "answer variant does not match question")
)

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return apperrors.KindOf(err) == apperrors.KindNotFound
}

// IsConflict checks if error represents a conflicting submission or finalization
func IsConflict(err error) bool {
	return apperrors.KindOf(err) == apperrors.KindConflict
}

// IsBadRequest checks if error represents an invalid submission payload
func IsBadRequest(err error) bool {
	return apperrors.KindOf(err) == apperrors.KindBadRequest
}

// IsIncomplete checks if error represents a finalize over unanswered questions
func IsIncomplete(err error) bool {
	return apperrors.KindOf(err) == apperrors.KindIncomplete
}

// IsDependencyFailure checks if error represents a failed provider call
func IsDependencyFailure(err error) bool {
	return apperrors.KindOf(err) == apperrors.KindDependencyFailure
}
