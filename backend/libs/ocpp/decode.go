package ocpp

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DecodeRequest parses and validates a CALL or SEND payload for the action.
func (r *Registry) DecodeRequest(action string, payload json.RawMessage) (Request, error) {
	req, err := r.NewRequest(action)
	if err != nil {
		return nil, err
	}
	if err := decodeInto(payload, req); err != nil {
		return nil, err
	}
	if err := Validate(req); err != nil {
		return nil, err
	}
	return req, nil
}

// DecodeResponse parses and validates a CALLRESULT payload for the action.
func (r *Registry) DecodeResponse(action string, payload json.RawMessage) (Response, error) {
	resp, err := r.NewResponse(action)
	if err != nil {
		return nil, err
	}
	if err := decodeInto(payload, resp); err != nil {
		return nil, err
	}
	if err := Validate(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func decodeInto(payload json.RawMessage, target any) error {
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	err := json.Unmarshal(payload, target)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return NewError(TypeConstraintViolation, fmt.Sprintf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value), nil)
	}
	return NewError(FormatViolation, err.Error(), nil)
}
