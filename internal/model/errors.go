package model

import "errors"

var (
	// ErrDataUnavailable means the provider returned no usable series or an explicit error.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrNetworkFailure means the transport failed before a usable response arrived.
	ErrNetworkFailure = errors.New("network failure")
	// ErrInsufficientHistory means a series is shorter than a lookback period.
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrUnknownGroup        = errors.New("unknown group")
	ErrUnknownSymbol       = errors.New("unknown symbol")
	ErrUnknownConversation = errors.New("unknown conversation")
)
