package handlers

import (
	"context"

	"go.uber.org/zap"

	"ocppnode/backend/libs/ocpp/authorization"
	"ocppnode/backend/libs/ocpp/node"
	"ocppnode/backend/libs/ocpp/types"
)

func registerAuthorization(n *node.Node, d *Deps) {
	node.HandleFunc(n, authorization.AuthorizeFeatureName, NewAuthorizeHandler(d))
}

// NewAuthorizeHandler checks tokens against the configured allow-list.
func NewAuthorizeHandler(d *Deps) func(context.Context, *node.RequestContext, *authorization.AuthorizeRequest) (*authorization.AuthorizeResponse, error) {
	return func(_ context.Context, rc *node.RequestContext, req *authorization.AuthorizeRequest) (*authorization.AuthorizeResponse, error) {
		d.seen(rc)
		info := d.authorize(req.IdToken.IdToken)
		d.Logger.Info("authorize",
			zap.String("station_id", string(rc.From)),
			zap.String("token_type", req.IdToken.Type),
			zap.String("status", string(info.Status)),
		)
		return authorization.NewAuthorizeResponse(info), nil
	}
}

func (d *Deps) authorize(token string) types.IdTokenInfo {
	if len(d.AllowedTokens) == 0 {
		return types.NewIdTokenInfo(types.AuthorizationStatusAccepted)
	}
	for _, allowed := range d.AllowedTokens {
		if allowed == token {
			return types.NewIdTokenInfo(types.AuthorizationStatusAccepted)
		}
	}
	return types.NewIdTokenInfo(types.AuthorizationStatusInvalid)
}
