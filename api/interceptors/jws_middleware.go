package interceptors

import (
	"crypto/ed25519"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-jose/go-jose/v3"
	"github.com/zingerfi/zingerfi-server/global"
	"github.com/zingerfi/zingerfi-server/types"
)

const (
	// IdentityKey is the gin context key of the authenticated *types.Identity
	IdentityKey = "identity"

	tokenExpiryHours = 30 * 24 // 30 days
)

type tokenClaims struct {
	Iss   string `json:"iss"`
	Sub   string `json:"sub"`
	Aud   string `json:"aud"`
	Email string `json:"email"`
	Iat   int64  `json:"iat"`
	Exp   int64  `json:"exp"`
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, types.OutputError{Error: message, Kind: types.KindUnauthorized})
}

// JWSMiddleware verifies the bearer token (compact JWS signed with the server Ed25519 key)
// and stores the caller identity in the context
func JWSMiddleware(publicKey ed25519.PublicKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			abortUnauthorized(c, "Authorization header is missing")
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			abortUnauthorized(c, "Authorization header must use the Bearer scheme")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" {
			abortUnauthorized(c, "Bearer token is missing")
			return
		}

		// Parse JWS message
		object, err := jose.ParseSigned(token)
		if err != nil {
			abortUnauthorized(c, "Invalid JWS message")
			return
		}

		// Verify the signature
		payload, err := object.Verify(publicKey)
		if err != nil {
			abortUnauthorized(c, "Failed to verify JWS message")
			return
		}

		var claims tokenClaims
		if uErr := json.Unmarshal(payload, &claims); uErr != nil {
			abortUnauthorized(c, "Failed to parse JWS payload")
			return
		}
		if claims.Exp == 0 || claims.Exp < time.Now().Unix() {
			abortUnauthorized(c, "JWS message expired")
			return
		}
		if global.Conf.Auth.TokenAudience != "" && claims.Aud != global.Conf.Auth.TokenAudience {
			abortUnauthorized(c, "JWS audience mismatch")
			return
		}
		if claims.Sub == "" || claims.Email == "" {
			abortUnauthorized(c, "Failed to parse JWS payload (sub or email missing)")
			return
		}

		c.Set(IdentityKey, &types.Identity{UserID: claims.Sub, Email: claims.Email})
		c.Next()
	}
}

// GetIdentity returns the identity set by JWSMiddleware, or nil
func GetIdentity(c *gin.Context) *types.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*types.Identity)
	return identity
}

// GenerateJWSToken issues a bearer token for userID/email. A zero ttl means the default expiry.
func GenerateJWSToken(serverPrivateKey ed25519.PrivateKey, userID, email string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = time.Hour * tokenExpiryHours
	}
	issuer := global.Conf.Auth.TokenIssuer
	if issuer == "" {
		issuer = "zingerfi"
	}
	pl := tokenClaims{
		Iss:   issuer,
		Sub:   userID,
		Aud:   global.Conf.Auth.TokenAudience,
		Email: email,
		Iat:   time.Now().Unix(),
		Exp:   time.Now().Add(ttl).Unix(),
	}
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.EdDSA, Key: serverPrivateKey}, nil)
	if err != nil {
		return "", err
	}

	plBytes, plErr := json.Marshal(pl)
	if plErr != nil {
		return "", plErr
	}
	object, err := signer.Sign(plBytes)
	if err != nil {
		return "", err
	}

	return object.CompactSerialize()
}
