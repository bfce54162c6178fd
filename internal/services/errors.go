package services

import "errors"

// Service errors
var (
	ErrNoWorkbookSource = errors.New("no workbook source configured")
	ErrChatUnavailable  = errors.New("chat backend not configured")
)
