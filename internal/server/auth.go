package server

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/elkontrol/inspections/api/internal/interfaces/http/common"
)

var errInvalidToken = errors.New("invalid access token")

type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	Picture           string `json:"picture,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// authMiddleware verifies the bearer token and stores the subject as the
// authenticated user. The subject owns every document the request touches.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.unauthorized(w, "Authorization-headeren mangler")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.unauthorized(w, "Angiv et Bearer-token")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.unauthorized(w, "Adgangstokenet er tomt")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			s.unauthorized(w, "Adgangstokenet er ugyldigt")
			return
		}

		user := common.AuthenticatedUser{
			ID:       claims.Subject,
			Name:     claims.Name,
			Username: claims.PreferredUsername,
			Picture:  claims.Picture,
		}
		next.ServeHTTP(w, r.WithContext(common.ContextWithUser(r.Context(), user)))
	})
}

// parseAuthToken checks the HS256 signature, issuer, audience and time claims.
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwt.Secret) == 0 {
		return nil, fmt.Errorf("auth is not configured")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.jwt.Secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	if s.jwt.Issuer != "" && claims.Issuer != s.jwt.Issuer {
		return nil, errInvalidToken
	}
	if claims.Subject == "" {
		return nil, errInvalidToken
	}
	if s.jwt.Audience != "" && !slices.Contains(claims.Audience, s.jwt.Audience) {
		return nil, errInvalidToken
	}
	return claims, nil
}

func (s *Server) unauthorized(w http.ResponseWriter, message string) {
	common.WriteJSON(s.logger, w, http.StatusUnauthorized, common.ErrorResponse{Error: message, Code: "unauthorized"})
}

// verifyHandler echoes the authenticated user.
func (s *Server) verifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(s.logger, w, r)
		if !ok {
			return
		}
		common.WriteJSON(s.logger, w, http.StatusOK, map[string]any{"user": user})
	}
}
