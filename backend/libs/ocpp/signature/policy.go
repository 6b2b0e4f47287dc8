// Package signature implements the signature policy applied to OCPP payloads:
// rules decide per message context whether outgoing payloads get signed and
// whether incoming ones must carry valid signatures.
package signature

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"time"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/types"
)

// Action of a policy rule.
type Action string

const (
	// ActionSign attaches a signature made with the rule's key.
	ActionSign Action = "Sign"
	// ActionVerify checks every signature present, none required.
	ActionVerify Action = "Verify"
	// ActionRequire checks every signature present and needs at least one
	// valid signature by a trusted key.
	ActionRequire Action = "Require"
)

// EncodingBase64 is the encoding method set on produced signatures.
const EncodingBase64 = "Base64"

// Rule applies an action to payloads whose context matches Context. Context is
// a path.Match pattern such as "BootNotificationRequest", "*Response" or "*".
type Rule struct {
	Name     string
	Priority int
	Context  string
	Action   Action
	Key      *KeyPair
	Trusted  []*KeyPair
}

// Matches reports whether the rule applies to the context.
func (r Rule) Matches(context string) bool {
	ok, err := path.Match(r.Context, context)
	return err == nil && ok
}

func (r Rule) validate() error {
	if _, err := path.Match(r.Context, ""); err != nil {
		return fmt.Errorf("signature: rule %q: bad context pattern %q: %w", r.Name, r.Context, err)
	}
	switch r.Action {
	case ActionSign:
		if r.Key == nil || !r.Key.CanSign() {
			return fmt.Errorf("signature: rule %q: sign rule needs a private key", r.Name)
		}
	case ActionVerify:
	case ActionRequire:
		if len(r.Trusted) == 0 {
			return fmt.Errorf("signature: rule %q: require rule needs trusted keys", r.Name)
		}
	default:
		return fmt.Errorf("signature: rule %q: unknown action %q", r.Name, r.Action)
	}
	return nil
}

// Policy is an immutable ordered rule set. A nil or empty Policy passes
// payloads through untouched.
type Policy struct {
	rules []Rule
	log   *zap.Logger
	now   func() time.Time
}

// NewPolicy validates the rules and orders them by ascending priority, keeping
// declaration order between equal priorities.
func NewPolicy(log *zap.Logger, rules ...Rule) (*Policy, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	for _, r := range sorted {
		if err := r.validate(); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return &Policy{rules: sorted, log: log, now: types.Now}, nil
}

// Rules returns a copy of the ordered rules.
func (p *Policy) Rules() []Rule {
	if p == nil {
		return nil
	}
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// SignRequest applies the sign rules of "<action>Request".
func (p *Policy) SignRequest(action string, payload json.RawMessage) (json.RawMessage, error) {
	return p.sign(ocpp.ContextName(action, false), payload)
}

// SignResponse applies the sign rules of "<action>Response".
func (p *Policy) SignResponse(action string, payload json.RawMessage) (json.RawMessage, error) {
	return p.sign(ocpp.ContextName(action, true), payload)
}

// VerifyRequest applies the verify and require rules of "<action>Request".
func (p *Policy) VerifyRequest(action string, payload json.RawMessage) error {
	return p.verify(ocpp.ContextName(action, false), payload)
}

// VerifyResponse applies the verify and require rules of "<action>Response".
func (p *Policy) VerifyResponse(action string, payload json.RawMessage) error {
	return p.verify(ocpp.ContextName(action, true), payload)
}

func (p *Policy) matching(context string, actions ...Action) []Rule {
	if p == nil {
		return nil
	}
	var out []Rule
	for _, r := range p.rules {
		if !r.Matches(context) {
			continue
		}
		for _, a := range actions {
			if r.Action == a {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func (p *Policy) sign(context string, payload json.RawMessage) (json.RawMessage, error) {
	rules := p.matching(context, ActionSign)
	if len(rules) == 0 {
		return payload, nil
	}

	members, sigs, err := splitSignatures(payload)
	if err != nil {
		return nil, ocpp.NewError(ocpp.FormatViolation, err.Error(), nil)
	}
	input, err := SigningInput(context, payload)
	if err != nil {
		return nil, ocpp.NewError(ocpp.FormatViolation, err.Error(), nil)
	}

	for _, r := range rules {
		raw, err := r.Key.Sign(input)
		if err != nil {
			return nil, ocpp.NewError(ocpp.InternalError, err.Error(), nil)
		}
		ts := p.now()
		sigs = append(sigs, types.Signature{
			KeyID:          r.Key.KeyID(),
			Value:          base64.StdEncoding.EncodeToString(raw),
			SigningMethod:  r.Key.MethodName(),
			EncodingMethod: EncodingBase64,
			Name:           r.Name,
			Timestamp:      &ts,
		})
		p.log.Debug("payload signed",
			zap.String("context", context),
			zap.String("rule", r.Name),
			zap.String("method", r.Key.MethodName()),
		)
	}

	encoded, err := json.Marshal(sigs)
	if err != nil {
		return nil, ocpp.NewError(ocpp.InternalError, err.Error(), nil)
	}
	members[signaturesMember] = encoded
	out, err := json.Marshal(members)
	if err != nil {
		return nil, ocpp.NewError(ocpp.InternalError, err.Error(), nil)
	}
	return out, nil
}

func (p *Policy) verify(context string, payload json.RawMessage) error {
	rules := p.matching(context, ActionVerify, ActionRequire)
	if len(rules) == 0 {
		return nil
	}

	_, sigs, err := splitSignatures(payload)
	if err != nil {
		return ocpp.NewError(ocpp.FormatViolation, err.Error(), nil)
	}

	var input []byte
	if len(sigs) > 0 {
		if input, err = SigningInput(context, payload); err != nil {
			return ocpp.NewError(ocpp.FormatViolation, err.Error(), nil)
		}
	}

	valid := make(map[string]struct{}, len(sigs))
	for i, sig := range sigs {
		if err := verifySignature(sig, input); err != nil {
			p.log.Warn("signature rejected",
				zap.String("context", context),
				zap.Int("index", i),
				zap.String("key_id", sig.KeyID),
				zap.Error(err),
			)
			return ocpp.NewError(ocpp.SecurityError, fmt.Sprintf("signature %d of %s is invalid: %v", i, context, err), nil)
		}
		valid[sig.KeyID] = struct{}{}
	}

	for _, r := range rules {
		if r.Action != ActionRequire {
			continue
		}
		if !anyTrusted(r.Trusted, valid) {
			p.log.Warn("required signature missing",
				zap.String("context", context),
				zap.String("rule", r.Name),
			)
			return ocpp.NewError(ocpp.SecurityError, fmt.Sprintf("%s lacks a signature required by rule %q", context, r.Name), nil)
		}
	}
	return nil
}

func verifySignature(sig types.Signature, input []byte) error {
	key, err := ParseKeyID(sig.KeyID)
	if err != nil {
		return err
	}
	if sig.SigningMethod != "" && sig.SigningMethod != key.MethodName() {
		return fmt.Errorf("signing method %s does not match %s key", sig.SigningMethod, key.MethodName())
	}
	if sig.EncodingMethod != "" && sig.EncodingMethod != EncodingBase64 {
		return fmt.Errorf("unsupported encoding method %s", sig.EncodingMethod)
	}
	raw, err := base64.StdEncoding.DecodeString(sig.Value)
	if err != nil {
		return fmt.Errorf("value is not base64: %w", err)
	}
	return key.Verify(input, raw)
}

func anyTrusted(trusted []*KeyPair, valid map[string]struct{}) bool {
	for _, k := range trusted {
		if _, ok := valid[k.KeyID()]; ok {
			return true
		}
	}
	return false
}

// splitSignatures decodes the top level members and the signatures attached to
// a payload.
func splitSignatures(payload json.RawMessage) (map[string]json.RawMessage, []types.Signature, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(payload, &members); err != nil {
		return nil, nil, fmt.Errorf("signature: payload is not a JSON object: %w", err)
	}
	if members == nil {
		return nil, nil, fmt.Errorf("signature: payload is not a JSON object")
	}
	var sigs []types.Signature
	if raw, ok := members[signaturesMember]; ok {
		if err := json.Unmarshal(raw, &sigs); err != nil {
			return nil, nil, fmt.Errorf("signature: malformed signatures member: %w", err)
		}
	}
	return members, sigs, nil
}
