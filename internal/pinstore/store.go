// Package pinstore keeps agent PINs as bcrypt hashes behind a small
// credential-store interface.
package pinstore

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/agent-admin/pkg/util/errorutil"
)

// MsgInvalidPIN is returned for PINs that are not 4 to 6 digits.
const MsgInvalidPIN = "PIN must be 4 to 6 digits"

// Store maps agent identifiers to PINs.
type Store interface {
	Set(ctx context.Context, agentID int64, pin string) error
	// Verify reports whether pin matches the stored PIN. A missing entry is a
	// mismatch, not an error.
	Verify(ctx context.Context, agentID int64, pin string) (bool, error)
	Delete(ctx context.Context, agentID int64) error
}

// ValidatePIN checks the PIN format.
func ValidatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 6 {
		return apperrors.NewInvalidInput(MsgInvalidPIN)
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return apperrors.NewInvalidInput(MsgInvalidPIN)
		}
	}
	return nil
}

// Seed loads development PINs into store.
func Seed(ctx context.Context, store Store, pins map[int64]string) error {
	for agentID, pin := range pins {
		if err := store.Set(ctx, agentID, pin); err != nil {
			return err
		}
	}
	return nil
}

func hashPIN(pin string, cost int) ([]byte, error) {
	if err := ValidatePIN(pin); err != nil {
		return nil, err
	}
	return bcrypt.GenerateFromPassword([]byte(pin), cost)
}

func compareHash(hash []byte, pin string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(pin))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

func normalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}
