package services

import "errors"

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrProgressNotFound   = errors.New("progress not found")
	ErrProgressExists     = errors.New("progress already exists for this course")
	ErrTopicNotFound      = errors.New("topic not found in course")
	ErrTopicLocked        = errors.New("previous topic must be completed first")
	ErrInvalidStatus      = errors.New("invalid user status")
	ErrInvalidMinutes     = errors.New("minutes spent must be between 1 and 240")
	ErrInvalidPreferences = errors.New("daily goal must be between 5 and 480 minutes")
)
