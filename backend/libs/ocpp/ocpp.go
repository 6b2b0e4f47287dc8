// Package ocpp holds the OCPP-J 2.1 core shared by the message catalogue and the
// networking node: frames, protocol errors, features and payload validation.
package ocpp

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Request is an OCPP request payload.
type Request interface {
	// GetFeatureName returns the action the request belongs to.
	GetFeatureName() string
}

// Response is an OCPP response payload.
type Response interface {
	// GetFeatureName returns the action the response belongs to.
	GetFeatureName() string
}

// Feature binds an action name to its request and response payload types.
type Feature interface {
	GetFeatureName() string
	GetRequestType() reflect.Type
	GetResponseType() reflect.Type
}

type feature struct {
	name         string
	requestType  reflect.Type
	responseType reflect.Type
}

func (f feature) GetFeatureName() string        { return f.name }
func (f feature) GetRequestType() reflect.Type  { return f.requestType }
func (f feature) GetResponseType() reflect.Type { return f.responseType }

// NewFeature builds a Feature from the request and response struct types.
func NewFeature[Req Request, Resp Response](name string) Feature {
	return feature{
		name:         name,
		requestType:  structType[Req](),
		responseType: structType[Resp](),
	}
}

// NewSendFeature builds a Feature for a SEND-only action. It has no response
// type and is never answered.
func NewSendFeature[Req Request](name string) Feature {
	return feature{
		name:        name,
		requestType: structType[Req](),
	}
}

// IsSendOnly reports whether the feature is only ever carried by SEND frames.
func IsSendOnly(f Feature) bool {
	return f != nil && f.GetResponseType() == nil
}

func structType[T any]() reflect.Type {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// Profile is a named group of features, usually one OCPP functional block.
type Profile struct {
	Name     string
	Features map[string]Feature
}

// NewProfile groups features under a name.
func NewProfile(name string, features ...Feature) *Profile {
	p := &Profile{Name: name, Features: make(map[string]Feature, len(features))}
	for _, f := range features {
		p.Features[f.GetFeatureName()] = f
	}
	return p
}

// SupportsFeature reports whether the profile contains the action.
func (p *Profile) SupportsFeature(name string) bool {
	_, ok := p.Features[name]
	return ok
}

// Registry resolves actions to features across profiles.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	features map[string]Feature
}

// NewRegistry returns a registry holding the given profiles.
func NewRegistry(profiles ...*Profile) *Registry {
	r := &Registry{
		profiles: make(map[string]*Profile),
		features: make(map[string]Feature),
	}
	for _, p := range profiles {
		r.AddProfile(p)
	}
	return r
}

// AddProfile registers every feature of the profile. Later profiles win on
// duplicate action names.
func (r *Registry) AddProfile(p *Profile) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.Name] = p
	for name, f := range p.Features {
		r.features[name] = f
	}
}

// Feature looks up an action.
func (r *Registry) Feature(action string) (Feature, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.features[action]
	return f, ok
}

// Actions returns the sorted list of known actions.
func (r *Registry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	actions := make([]string, 0, len(r.features))
	for name := range r.features {
		actions = append(actions, name)
	}
	sort.Strings(actions)
	return actions
}

// Profiles returns the registered profile names.
func (r *Registry) Profiles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRequest allocates an empty request for the action.
func (r *Registry) NewRequest(action string) (Request, error) {
	f, ok := r.Feature(action)
	if !ok {
		return nil, NewError(NotImplemented, fmt.Sprintf("unknown action %s", action), nil)
	}
	req, ok := reflect.New(f.GetRequestType()).Interface().(Request)
	if !ok {
		return nil, fmt.Errorf("ocpp: %s request type does not implement Request", action)
	}
	return req, nil
}

// NewResponse allocates an empty response for the action.
func (r *Registry) NewResponse(action string) (Response, error) {
	f, ok := r.Feature(action)
	if !ok {
		return nil, NewError(NotImplemented, fmt.Sprintf("unknown action %s", action), nil)
	}
	if IsSendOnly(f) {
		return nil, NewError(MessageTypeNotSupported, fmt.Sprintf("%s has no response", action), nil)
	}
	resp, ok := reflect.New(f.GetResponseType()).Interface().(Response)
	if !ok {
		return nil, fmt.Errorf("ocpp: %s response type does not implement Response", action)
	}
	return resp, nil
}

// ContextName returns the signature context of a payload, e.g.
// "BootNotificationRequest".
func ContextName(action string, isResponse bool) string {
	action = strings.TrimSpace(action)
	if isResponse {
		return action + "Response"
	}
	return action + "Request"
}
