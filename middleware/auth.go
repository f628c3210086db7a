package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwks"
	"github.com/clerk/clerk-sdk-go/v2/jwt"

	"planbackend/appctx"
	"planbackend/models/api"
	"planbackend/services"
)

const clerkAuthProvider = "clerk"

// TokenVerifier resolves a bearer token to the identity provider's subject
type TokenVerifier func(r *http.Request, token string) (string, error)

// ClerkAuthMiddleware authenticates requests with a Clerk session JWT
type ClerkAuthMiddleware struct {
	usersService services.UsersService
	verifyToken  TokenVerifier
}

// NewClerkAuthMiddleware creates a new authentication middleware instance
func NewClerkAuthMiddleware(usersService services.UsersService, clerkSecretKey string) *ClerkAuthMiddleware {
	config := &clerk.ClientConfig{
		BackendConfig: clerk.BackendConfig{
			Key: clerk.String(clerkSecretKey),
		},
	}
	jwksClient := jwks.NewClient(config)

	return NewClerkAuthMiddlewareWithVerifier(usersService, func(r *http.Request, token string) (string, error) {
		claims, err := jwt.Verify(r.Context(), &jwt.VerifyParams{
			Token:      token,
			JWKSClient: jwksClient,
		})
		if err != nil {
			return "", err
		}
		return claims.Subject, nil
	})
}

// NewClerkAuthMiddlewareWithVerifier replaces JWT verification, used in tests
func NewClerkAuthMiddlewareWithVerifier(usersService services.UsersService, verifier TokenVerifier) *ClerkAuthMiddleware {
	return &ClerkAuthMiddleware{
		usersService: usersService,
		verifyToken:  verifier,
	}
}

// WithAuth wraps an HTTP handler with JWT authentication
func (m *ClerkAuthMiddleware) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("🔐 Authentication middleware processing request from %s", r.RemoteAddr)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ Missing Authorization header")
			writeErrorResponse(w, "missing authorization header", api.ErrorCodeUnauthorized, http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Printf("❌ Invalid Authorization header format")
			writeErrorResponse(w, "invalid authorization header format", api.ErrorCodeUnauthorized, http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			log.Printf("❌ Empty bearer token")
			writeErrorResponse(w, "empty bearer token", api.ErrorCodeUnauthorized, http.StatusUnauthorized)
			return
		}

		subject, err := m.verifyToken(r, token)
		if err != nil {
			log.Printf("❌ JWT verification failed: %v", err)
			writeErrorResponse(w, "invalid token", api.ErrorCodeUnauthorized, http.StatusUnauthorized)
			return
		}

		user, err := m.usersService.GetOrCreateUser(r.Context(), clerkAuthProvider, subject)
		if err != nil {
			log.Printf("❌ Failed to get or create user: %v", err)
			writeErrorResponse(w, "internal server error", api.ErrorCodeInternal, http.StatusInternalServerError)
			return
		}

		log.Printf("✅ User authenticated successfully: %s", user.ID)
		ctx := appctx.SetUser(r.Context(), user)
		next(w, r.WithContext(ctx))
	}
}

// writeErrorResponse writes the standard failure envelope
func writeErrorResponse(w http.ResponseWriter, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(api.ErrorResponse{OK: false, Error: message, Code: code}); err != nil {
		log.Printf("❌ Failed to encode error response: %v", err)
	}
}
