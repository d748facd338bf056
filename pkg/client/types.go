package client

import "folio/internal/models"

// Resource types returned by the API. They alias the server's models so
// callers outside this module can name them.
type (
	Account      = models.Account
	Project      = models.Project
	Testimonial  = models.Testimonial
	TimelineItem = models.TimelineItem
	Blog         = models.Blog
	BlogComment  = models.BlogComment
	Contact      = models.Contact
	Subscriber   = models.Subscriber
)

// Error codes carried by APIError.Code.
const (
	CodeValidation         = models.CodeValidation
	CodeUnauthorized       = models.CodeUnauthorized
	CodeInvalidCredentials = models.CodeInvalidCredentials
	CodeNotFound           = models.CodeNotFound
	CodeInvalidFileType    = models.CodeInvalidFileType
	CodeFileTooLarge       = models.CodeFileTooLarge
	CodeDelivery           = models.CodeDelivery
	CodeRateLimited        = models.CodeRateLimited
	CodeInternal           = models.CodeInternal
)
