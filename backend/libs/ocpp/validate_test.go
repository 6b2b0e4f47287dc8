package ocpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testColor string

type testPayload struct {
	Name  string    `json:"name" validate:"required,max=5"`
	Color testColor `json:"color,omitempty" validate:"omitempty,testColor"`
	Count int       `json:"count" validate:"gte=0"`
}

func (testPayload) GetFeatureName() string { return "Test" }

func init() {
	RegisterEnum("testColor", testColor("red"), testColor("blue"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload testPayload
		code    ErrorCode
	}{
		{name: "valid", payload: testPayload{Name: "a", Color: "red"}},
		{name: "missing", payload: testPayload{Color: "red"}, code: OccurrenceConstraintViolation},
		{name: "too long", payload: testPayload{Name: "abcdefg"}, code: PropertyConstraintViolation},
		{name: "bad enum", payload: testPayload{Name: "a", Color: "green"}, code: PropertyConstraintViolation},
		{name: "negative", payload: testPayload{Name: "a", Count: -1}, code: PropertyConstraintViolation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(&tc.payload)
			if tc.code == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsCode(err, tc.code), err.Error())
		})
	}
}

func TestRegistryDecode(t *testing.T) {
	registry := NewRegistry(NewProfile("test", NewFeature[testPayload, testPayload]("Test")))

	req, err := registry.DecodeRequest("Test", []byte(`{"name":"abc","count":2}`))
	require.NoError(t, err)
	assert.Equal(t, &testPayload{Name: "abc", Count: 2}, req)

	_, err = registry.DecodeRequest("Test", []byte(`{"name":5}`))
	assert.True(t, IsCode(err, TypeConstraintViolation))

	_, err = registry.DecodeRequest("Test", []byte(`{"name":`))
	assert.True(t, IsCode(err, FormatViolation))

	_, err = registry.DecodeRequest("Unknown", []byte(`{}`))
	assert.True(t, IsCode(err, NotImplemented))

	assert.Equal(t, []string{"Test"}, registry.Actions())
	assert.Equal(t, []string{"test"}, registry.Profiles())
}

func TestContextName(t *testing.T) {
	assert.Equal(t, "BootNotificationRequest", ContextName("BootNotification", false))
	assert.Equal(t, "BootNotificationResponse", ContextName("BootNotification", true))
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))
	assert.Equal(t, InternalError, AsError(assert.AnError).Code)
	original := NewError(SecurityError, "x", nil)
	assert.Same(t, original, AsError(original))
}
