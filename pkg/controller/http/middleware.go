package http

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskaccept/pkg/domain/interfaces"
	"github.com/secmon-lab/riskaccept/pkg/domain/model"
	"github.com/secmon-lab/riskaccept/pkg/domain/model/auth"
	"github.com/secmon-lab/riskaccept/pkg/domain/types"
	"github.com/secmon-lab/riskaccept/pkg/utils/errutil"
)

// actorHeader carries the caller identity. Authentication happens at the
// gateway; this service trusts the header and resolves role from the user
// store.
const actorHeader = "X-Actor-ID"

func actorMiddleware(users interfaces.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := r.Header.Get(actorHeader)
			if actorID == "" {
				errutil.HandleHTTP(r.Context(), w,
					goerr.New("missing actor header", goerr.V("header", actorHeader)),
					http.StatusUnauthorized)
				return
			}

			user, err := users.Get(r.Context(), types.UserID(actorID))
			if err != nil {
				if errors.Is(err, model.ErrNotFound) {
					errutil.HandleHTTP(r.Context(), w,
						goerr.New("unknown actor", goerr.V("actor_id", actorID)),
						http.StatusUnauthorized)
					return
				}
				errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
				return
			}

			actor := &auth.Actor{
				ID:   user.ID,
				Name: user.Name,
				Role: user.Role,
			}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithActor(r.Context(), actor)))
		})
	}
}
