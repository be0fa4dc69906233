package util

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadySubmitted   = errors.New("assignment already submitted")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInsufficientPoints = errors.New("not enough points")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAssignmentInUse    = errors.New("assignment already has completed submissions")
	ErrInvalidRecipient   = errors.New("recipient is not one of your contacts")
	ErrInvalidWordList    = errors.New("a spelling list needs exactly 10 words")
	ErrRewardInactive     = errors.New("reward is not available")
	ErrInvalidPoints      = errors.New("points must not be zero")
	ErrEmptyMessage       = errors.New("message content is empty")
)
