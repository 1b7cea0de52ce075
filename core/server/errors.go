package server

import "errors"

var (
	// TLS configuration errors
	ErrEmptyCertPath = errors.New("certificate or key file path cannot be empty")
	ErrFailedLoadCert = errors.New("failed to load certificate")

	// Server lifecycle errors
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrHTTPServer           = errors.New("HTTP server error")
	ErrHTTPShutdown         = errors.New("HTTP shutdown error")
)
