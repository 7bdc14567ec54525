package routing

import (
	"net/http"

	"github.com/antinvestor/service-catalogue/service/types"
	"github.com/pitabwire/frame/security"
)

// actorFromRequest resolves the authenticated actor from the request
// claims. Endpoints reachable without authentication get a zero actor.
func actorFromRequest(r *http.Request) types.Actor {
	authClaims := security.ClaimsFromContext(r.Context())
	if authClaims == nil {
		return types.Actor{}
	}

	sub, err := authClaims.GetSubject()
	if err != nil {
		return types.Actor{}
	}

	return types.Actor{ID: types.ActorID(sub)}
}
