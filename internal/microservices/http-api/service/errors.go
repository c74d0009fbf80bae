package service

import "errors"

var (
	ErrNameInUse          = errors.New("username already in use")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrUserNotFound       = errors.New("user not found")
	ErrFullNameRequired   = errors.New("full name is required")

	ErrForbidden = errors.New("forbidden")

	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidStatus      = errors.New("status must be draft or pending")
	ErrEmptyPatch         = errors.New("no fields to update")
	ErrTitleRequired      = errors.New("title is required")
	ErrAbstractRequired   = errors.New("abstract is required unless saving a draft")

	ErrArticleNotFound = errors.New("article not found")
	ErrUnknownFormat   = errors.New("unknown citation format")

	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("comment content cannot be empty")
	ErrInvalidParent   = errors.New("parent comment does not belong to this article")

	ErrNotificationNotFound = errors.New("notification not found")
)
