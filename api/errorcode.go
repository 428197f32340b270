package api

import (
	"github.com/scan2clean/intake-api/store"
)

var (
	errorMessageMap = map[int64]string{
		999: "internal server error",

		1010: "invalid parameters",
		1011: "cannot parse request",
		1012: "request body too large",
		1013: "not found",

		1100: store.ErrStorageUnavailable.Error(),
		1101: store.ErrRequestNotFound.Error(),

		1200: "cannot save uploaded image",
		1201: "upload not found",
	}

	errorInternalServer = errorJSON(999)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)
	errorRequestTooLarge    = errorJSON(1012)
	errorNotFound           = errorJSON(1013)

	errorStorageUnavailable = errorJSON(1100)
	errorRequestNotFound    = errorJSON(1101)

	errorUploadFailed   = errorJSON(1200)
	errorUploadNotFound = errorJSON(1201)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// withMessage replaces the fixed message by the text of err, when there is one
func (e ErrorResponse) withMessage(err error) ErrorResponse {
	if err != nil && err.Error() != "" {
		e.Message = err.Error()
	}
	return e
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}
