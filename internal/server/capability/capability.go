// Package capability mints and verifies the signed, time-bound tokens that
// authorize direct transfers against the object store, and builds the
// pre-signed URLs that carry them.
//
// Tokens are stateless: verification proves authenticity, action, and
// freshness, nothing more. There is no server-side registry and therefore no
// single-use enforcement; replaying a token before its expiry succeeds.
// Handlers must compare every claim field (key, uploadId, partNumber)
// against the actual request parameters with exact matches.
package capability

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/sharedrop/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Actions a capability can authorize. Each token is valid for exactly one.
const (
	ActionUpload     = "upload"
	ActionUploadPart = "uploadPart"
	ActionDownload   = "download"
)

// Claims is the claim set embedded in a capability token.
type Claims struct {
	jwt.RegisteredClaims
	Action     string `json:"action"`
	Key        string `json:"key"`
	UploadID   string `json:"uploadId,omitempty"`
	PartNumber int    `json:"partNumber,omitempty"`
}

// SignedURL is the result of pre-signing: the URL the client transfers
// bytes against, the HTTP method to use, and the advertised validity in
// seconds.
type SignedURL struct {
	URL       string
	Method    string
	ExpiresIn int
}

// Issuer mints capability tokens with a fixed TTL and embeds them in URLs
// under the configured public base.
type Issuer struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
}

func NewIssuer(secret []byte, baseURL string, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, baseURL: baseURL, ttl: ttl}
}

func (i *Issuer) sign(claims Claims) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(i.ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// SignedUploadURL pre-signs a whole-object PUT for key.
func (i *Issuer) SignedUploadURL(key string) (*SignedURL, error) {
	token, err := i.sign(Claims{Action: ActionUpload, Key: key})
	if err != nil {
		return nil, fmt.Errorf("signing upload token: %w", err)
	}

	q := url.Values{}
	q.Set("key", key)
	q.Set("token", token)

	return &SignedURL{
		URL:       i.baseURL + "/store/upload?" + q.Encode(),
		Method:    "PUT",
		ExpiresIn: int(i.ttl.Seconds()),
	}, nil
}

// SignedPartURL pre-signs a single part PUT of a multipart session.
func (i *Issuer) SignedPartURL(uploadID, key string, partNumber int) (*SignedURL, error) {
	token, err := i.sign(Claims{
		Action:     ActionUploadPart,
		Key:        key,
		UploadID:   uploadID,
		PartNumber: partNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("signing part token: %w", err)
	}

	q := url.Values{}
	q.Set("key", key)
	q.Set("uploadId", uploadID)
	q.Set("partNumber", strconv.Itoa(partNumber))
	q.Set("token", token)

	return &SignedURL{
		URL:       i.baseURL + "/store/multipart/part?" + q.Encode(),
		Method:    "PUT",
		ExpiresIn: int(i.ttl.Seconds()),
	}, nil
}

// SignedDownloadURL pre-signs a GET for key.
func (i *Issuer) SignedDownloadURL(key string) (*SignedURL, error) {
	token, err := i.sign(Claims{Action: ActionDownload, Key: key})
	if err != nil {
		return nil, fmt.Errorf("signing download token: %w", err)
	}

	q := url.Values{}
	q.Set("key", key)
	q.Set("token", token)

	return &SignedURL{
		URL:       i.baseURL + "/store/download?" + q.Encode(),
		Method:    "GET",
		ExpiresIn: int(i.ttl.Seconds()),
	}, nil
}

// Verify checks signature and expiry and that the token was minted for
// expectedAction. Expired tokens yield common.ErrTokenExpired, every other
// failure common.ErrInvalidToken.
func (i *Issuer) Verify(tokenString, expectedAction string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Action != expectedAction {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
