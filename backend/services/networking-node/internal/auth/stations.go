package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"ocppnode/backend/libs/ocpp"
	"ocppnode/backend/libs/ocpp/ws"
)

// StationAuthenticator checks the Basic-auth password of connecting nodes
// against configured bcrypt hashes.
type StationAuthenticator struct {
	hashes   map[ocpp.NodeID]string
	verifier PasswordVerifier
}

// NewStationAuthenticator maps node ids to password hashes.
func NewStationAuthenticator(hashes map[string]string, verifier PasswordVerifier) *StationAuthenticator {
	m := make(map[ocpp.NodeID]string, len(hashes))
	for id, hash := range hashes {
		m[ocpp.NodeID(id)] = hash
	}
	return &StationAuthenticator{hashes: m, verifier: verifier}
}

// Authenticate implements ws.Authenticator. Every refusal wraps
// ws.ErrUnauthorized; a broken stored hash also wraps ErrInvalidHash.
func (a *StationAuthenticator) Authenticate(_ context.Context, id ocpp.NodeID, password string) error {
	hash, ok := a.hashes[id]
	if !ok {
		return fmt.Errorf("%w: unknown node %s", ws.ErrUnauthorized, id)
	}
	err := a.verifier.Verify(hash, password)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrPasswordMismatch):
		return fmt.Errorf("%w: bad password for %s", ws.ErrUnauthorized, id)
	default:
		return fmt.Errorf("%w: credential of %s: %w", ws.ErrUnauthorized, id, err)
	}
}

// Outdated lists the nodes whose stored hash is weaker than h would produce.
func (a *StationAuthenticator) Outdated(h *PasswordHasher) []ocpp.NodeID {
	var ids []ocpp.NodeID
	for id, hash := range a.hashes {
		if h.Outdated(hash) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
