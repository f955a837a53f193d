// Package auth implements the role model of a share: password hashing for
// the two password slots and signed, share-scoped role credentials.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Roles a credential can carry. A share has two password slots; the upload
// password yields RoleUploader, the download password yields RoleViewer.
// Viewer is the least-privileged role: uploader credentials satisfy
// viewer-gated routes, viewer credentials never satisfy uploader-gated ones.
const (
	RoleUploader = "uploader"
	RoleViewer   = "viewer"
)

// Claims is the claim set of a role credential: the standard registered
// claims plus the share id and role the bearer is scoped to.
type Claims struct {
	jwt.RegisteredClaims
	ShareID string `json:"share_id"`
	Role    string `json:"role"`
}

// GenerateToken mints a share-scoped role credential valid for
// validityDuration, signed with HS256.
func GenerateToken(shareID, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		ShareID: shareID,
		Role:    role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the embedded claims.
// Expired tokens yield common.ErrTokenExpired, everything else invalid
// yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Role != RoleUploader && claims.Role != RoleViewer {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
