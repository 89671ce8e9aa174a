package jwttoken

import (
	"refcert/internal/platform/middleware"
)

// JWTServiceAdapter bridges the JWT service to the transport middleware's
// validator interface.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{
		RefereeID: claims.RefereeID,
		Email:     claims.Email,
	}, nil
}
