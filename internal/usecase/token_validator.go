package usecase

import (
	"stayledger/internal/domain/booking"
	"stayledger/internal/domain/party"
	"stayledger/internal/pkg/jwt"
)

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (booking.Address, party.Role, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (booking.Address, party.Role, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return booking.Address{}, "", err
	}

	address, err := booking.NewAddress(claims.Address)
	if err != nil {
		return booking.Address{}, "", jwt.ErrInvalidToken
	}

	role, err := party.NewRole(claims.Role)
	if err != nil {
		return booking.Address{}, "", err
	}

	return address, role, nil
}
