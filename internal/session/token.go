// Package session reads the session cookie to steer already signed-in
// visitors away from guest pages. Tokens are decoded, never verified: the
// result is a routing hint and grants nothing. The API remains the only
// authority on whether a token is valid.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned by Expiry when the token has no exp claim.
var ErrNoExpiry = errors.New("token has no expiry claim")

var parser = jwt.NewParser()

// Expiry decodes token without checking its signature and returns its exp
// claim. A fractional exp keeps its sub-second part.
func Expiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	raw, ok := claims["exp"]
	if !ok || raw == nil {
		return time.Time{}, ErrNoExpiry
	}

	var secs float64
	switch v := raw.(type) {
	case float64:
		secs = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: exp", jwt.ErrInvalidType)
		}
		secs = f
	default:
		return time.Time{}, fmt.Errorf("%w: exp", jwt.ErrInvalidType)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, fmt.Errorf("%w: exp", jwt.ErrInvalidType)
	}

	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))), nil
}

// Unexpired reports whether token carries an exp claim strictly after now.
// The error is set when the token does not decode or has no usable exp.
func Unexpired(token string, now time.Time) (bool, error) {
	exp, err := Expiry(token)
	if err != nil {
		return false, err
	}
	return exp.After(now), nil
}
