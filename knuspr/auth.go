package knuspr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// authHandler owns the session lifecycle: LoggedOut -> login -> LoggedIn ->
// logout or reactive auth failure -> LoggedOut.
type authHandler struct {
	username string
	password string
	logger   zerolog.Logger

	userID        int64
	addressID     int64
	authenticated bool
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginData struct {
	User struct {
		ID int64 `json:"id"`
	} `json:"user"`
	Address struct {
		ID int64 `json:"id"`
	} `json:"address"`
}

// login authenticates against the API and captures the user and address
// ids needed by later calls. Calling login on an already-open session is a
// no-op returning the existing session.
func (a *authHandler) login(ctx context.Context, t *transport) (Session, error) {
	if a.authenticated {
		a.logger.Debug().Msg("already logged in, reusing session")
		return a.session(), nil
	}

	payload := loginPayload{Email: a.username, Password: a.password}
	data, err := t.request(ctx, http.MethodPost, endpointLogin, requestOptions{body: payload})
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return Session{}, &AuthError{Message: "invalid credentials"}
		}
		return Session{}, err
	}

	var ld loginData
	if err := json.Unmarshal(data, &ld); err != nil {
		return Session{}, schemaError(err)
	}

	a.userID = ld.User.ID
	a.addressID = ld.Address.ID
	a.authenticated = true
	a.logger.Debug().Int64("user_id", a.userID).Msg("logged in")

	return a.session(), nil
}

// logout is best-effort: the logout call may fail without consequence, but
// the session state is always cleared.
func (a *authHandler) logout(ctx context.Context, t *transport) {
	if _, err := t.request(ctx, http.MethodPost, endpointLogout, requestOptions{}); err != nil {
		a.logger.Debug().Err(err).Msg("logout request failed, discarding session anyway")
	}
	a.invalidate()
}

// invalidate drops the session state without a logout call. Used when the
// API signals the session is no longer valid.
func (a *authHandler) invalidate() {
	a.userID = 0
	a.addressID = 0
	a.authenticated = false
}

func (a *authHandler) session() Session {
	return Session{
		UserID:    a.userID,
		AddressID: a.addressID,
		LoggedIn:  a.authenticated,
	}
}
