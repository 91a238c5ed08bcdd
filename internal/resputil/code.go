package resputil

type ErrorCode int

const (
	OK ErrorCode = 0

	// General
	InvalidRequest ErrorCode = 40001

	// Token
	TokenExpired ErrorCode = 40101
	TokenInvalid ErrorCode = 40102

	// Login
	InvalidCredentials ErrorCode = 40106

	// User is not allowed to access the resource
	UserNotAllowed ErrorCode = 40301

	// Resource does not exist
	ResourceNotFound ErrorCode = 40401

	// Duplicate username/email or password confirmation mismatch
	DuplicateResource ErrorCode = 40901

	// Failures reported by the remote task service
	RemoteAccessDenied ErrorCode = 50201
	RemoteFailed       ErrorCode = 50202
	RemoteNetwork      ErrorCode = 50203
	RemoteUnavailable  ErrorCode = 50301

	// Indicates laziness of the developer
	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
