package signature

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const policyYAML = `
- name: node
  priority: 1
  context: "*Response"
  action: sign
  key: %s
- name: stations
  context: BootNotificationRequest
  action: require
  trusted:
    - keyid:%s
`

func TestBuildPolicyFromYAML(t *testing.T) {
	dir := t.TempDir()
	nodeKey := mustKey(t, MethodES256)
	stationKey := mustKey(t, MethodEdDSA)

	pemBytes, err := MarshalPrivateKeyPEM(nodeKey)
	require.NoError(t, err)
	keyPath := filepath.Join(dir, "node.pem")
	require.NoError(t, os.WriteFile(keyPath, pemBytes, 0o600))

	var configs []RuleConfig
	require.NoError(t, yaml.Unmarshal([]byte(fmt.Sprintf(policyYAML, keyPath, stationKey.KeyID())), &configs))
	require.Len(t, configs, 2)

	policy, err := BuildPolicy(zap.NewNop(), configs, nil)
	require.NoError(t, err)

	rules := policy.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "stations", rules[0].Name, "priority 0 sorts first")
	assert.Equal(t, ActionRequire, rules[0].Action)
	assert.Equal(t, ActionSign, rules[1].Action)

	signed, err := policy.SignResponse("BootNotification", json.RawMessage(`{"status":"Accepted"}`))
	require.NoError(t, err)
	assert.Len(t, signaturesOf(t, signed), 1)

	assert.Error(t, policy.VerifyRequest("BootNotification", json.RawMessage(`{}`)))
}

func TestBuildPolicyDefaults(t *testing.T) {
	policy, err := BuildPolicy(nil, []RuleConfig{{Action: "Verify"}}, nil)
	require.NoError(t, err)
	rules := policy.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "rule-1", rules[0].Name)
	assert.Equal(t, "*", rules[0].Context)
}

func TestBuildPolicyMissingKey(t *testing.T) {
	_, err := BuildPolicy(nil, []RuleConfig{{Name: "x", Action: "Sign", Key: "/does/not/exist.pem"}}, nil)
	assert.Error(t, err)
}
