package errs

import "github.com/pkg/errors"

var (
	// decoding errors
	ErrMissingEmailFields = errors.New("Missing required email fields")
	ErrMalformedForm      = errors.New("Invalid form data")

	// validation rejections
	ErrSenderAuthFailed = errors.New("Sender failed authentication")
	ErrSubjectTooLong   = errors.New("Subject exceeds maximum length")
	ErrSubjectUnsafe    = errors.New("Subject contains disallowed content")
	ErrContentTooLong   = errors.New("Content exceeds maximum length")
	ErrNothingToRecord  = errors.New("Nothing to record")

	// lookup rejections
	ErrUnknownSender     = errors.New("Unknown sender")
	ErrUpdateNotFound    = errors.New("Update not found")
	ErrRecipientNotFound = errors.New("Recipient not found")
	ErrChildNotFound     = errors.New("No child found for sender")
	ErrUnknownMailbox    = errors.New("Unrecognized destination address")
)
