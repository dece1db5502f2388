package serverutils

import "github.com/gofiber/fiber/v2"

type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) Response {
	return Response{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ErrorResponseWithDetails is used for 5xx responses where the cause is useful
// to the operator.
func ErrorResponseWithDetails(code int, message, details string) Response {
	return Response{
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	}
}
