package livedom

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

// Mount actions
const (
	ActionPatch    = "patch"
	ActionDispatch = "dispatch"
)

// message is a client request (internal protocol)
type message struct {
	Action string         `json:"action"` // "patch" or "dispatch"
	Data   map[string]any `json:"data"`
}

// reply is sent after every handled message
type reply struct {
	HTML  string `json:"html"`
	Error string `json:"error,omitempty"`
}

// DispatchRequest is the data of a dispatch action: the event to deliver to
// the element with the given id.
type DispatchRequest struct {
	ID      string  `json:"id" validate:"required"`
	Type    string  `json:"type" validate:"required"`
	Value   *string `json:"value,omitempty"`
	Checked *bool   `json:"checked,omitempty"`
}

var validate = newValidator()

// newValidator reports fields by their json names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindAndValidate unmarshals data into v and validates it
func bindAndValidate(data map[string]any, v any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to bind data: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return validationError(err)
	}
	return nil
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiError is a collection of field errors (implements error interface)
type MultiError []FieldError

func (m MultiError) Error() string {
	msgs := make([]string, 0, len(m))
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// validationError converts go-playground/validator errors to MultiError
func validationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(MultiError, 0, len(validationErrs))
	for _, e := range validationErrs {
		text := fmt.Sprintf("%s is invalid", e.Field())
		if e.Tag() == "required" {
			text = fmt.Sprintf("%s is required", e.Field())
		}
		fieldErrors = append(fieldErrors, FieldError{Field: e.Field(), Message: text})
	}
	return fieldErrors
}

// parseMessageFromHTTP parses a message from an HTTP POST request body
func parseMessageFromHTTP(r *http.Request) (message, error) {
	var msg message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		return message{}, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Data == nil {
		msg.Data = make(map[string]any)
	}
	return msg, nil
}

// parseMessageFromWebSocket parses a message from WebSocket message bytes
func parseMessageFromWebSocket(data []byte) (message, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return message{}, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Data == nil {
		msg.Data = make(map[string]any)
	}
	return msg, nil
}

// writeReplyWebSocket writes a reply to a WebSocket connection
func writeReplyWebSocket(conn *websocket.Conn, r reply) error {
	return conn.WriteJSON(r)
}
