package handler

import (
	"errors"
	"net/http"
	"reviewwidget/backend/internal/models"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	identityKey = "identity"
	tokenIssuer = "reviewwidget-service"
	tokenTTL    = 72 * time.Hour
)

var errInvalidToken = errors.New("invalid token")

type identityClaims struct {
	Name     string  `json:"name"`
	PhotoURL *string `json:"photo_url,omitempty"`
	jwt.RegisteredClaims
}

type identityRequest struct {
	Name     string  `json:"name" binding:"required,max=128"`
	PhotoURL *string `json:"photo_url" binding:"omitempty,url"`
}

// generateJWT signs the identity with the service secret.
func (h *Handler) generateJWT(identity models.Identity) (string, error) {
	claims := identityClaims{
		Name:     identity.Name,
		PhotoURL: identity.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

func (h *Handler) parseIdentity(tokenString string) (*models.Identity, error) {
	claims := &identityClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return h.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errInvalidToken
	}
	return &models.Identity{ID: claims.Subject, Name: claims.Name, PhotoURL: claims.PhotoURL}, nil
}

// IssueIdentity returns a token for the posted profile.
// The id is always assigned here: a caller presenting a valid token keeps its id,
// anyone else gets a fresh one.
func (h *Handler) IssueIdentity(c *gin.Context) {
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := uuid.New().String()
	if auth := c.GetHeader("Authorization"); auth != "" {
		tokenString, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Malformed authorization header"})
			return
		}
		current, err := h.parseIdentity(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}
		id = current.ID
	}
	identity := models.Identity{ID: id, Name: req.Name, PhotoURL: req.PhotoURL}

	token, err := h.generateJWT(identity)
	if err != nil {
		h.log.Errorw("Failed to sign identity token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "identity": identity})
}

// IdentityMiddleware attaches the caller's identity when a token is present.
// Browsers cannot set headers on WebSocket upgrades, so ?token= is accepted too.
func (h *Handler) IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if auth := c.GetHeader("Authorization"); auth != "" {
			var ok bool
			tokenString, ok = strings.CutPrefix(auth, "Bearer ")
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Malformed authorization header"})
				return
			}
		}
		if tokenString == "" {
			c.Next()
			return
		}

		identity, err := h.parseIdentity(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// identityFrom returns the caller's identity, or nil for anonymous callers.
func identityFrom(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*models.Identity)
	return identity
}
