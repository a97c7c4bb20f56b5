package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
)

const ContextCaller = "caller"

// Authenticate resolve o caller a partir do Bearer token. Sem header a
// requisição segue anônima (os casos de uso decidem se isso basta); token
// presente mas inválido é rejeitado com 401.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		caller, ok := callerFromClaims(claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextCaller, caller)
		c.Next()
	}
}

func callerFromClaims(claims jwt.MapClaims) (*domain.Caller, bool) {
	var id string
	switch sub := claims["sub"].(type) {
	case string:
		id = sub
	case float64:
		id = fmt.Sprintf("%.0f", sub)
	}

	role := domain.Role(strings.ToLower(fmt.Sprint(claims["role"])))
	if _, present := claims["role"]; !present {
		role = domain.RoleClient
	}

	if id == "" || !role.Valid() {
		return nil, false
	}
	return &domain.Caller{ID: id, Role: role}, true
}

// CallerFrom devolve o caller resolvido ou nil para requisições anônimas.
func CallerFrom(c *gin.Context) *domain.Caller {
	v, ok := c.Get(ContextCaller)
	if !ok {
		return nil
	}
	caller, _ := v.(*domain.Caller)
	return caller
}
