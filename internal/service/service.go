// Package service implements the business logic for orders, invoices, and
// their supporting workflows on top of the repository layer. Services accept
// and return domain types; HTTP concerns stay in the handler layer.
package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/facetworks/facet/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
)

// parseUUID converts a string ID into a pgtype.UUID, returning a validation
// error on malformed input.
func parseUUID(op, field, id string) (pgtype.UUID, error) {
	var u pgtype.UUID
	if err := u.Scan(id); err != nil {
		return pgtype.UUID{}, domain.Errorf(domain.EINVALID, op, "invalid %s: %s", field, id)
	}
	return u, nil
}

// uuidString formats a pgtype.UUID as its canonical string form.
func uuidString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return fmt.Sprintf("%x-%x-%x-%x-%x", u.Bytes[0:4], u.Bytes[4:6], u.Bytes[6:8], u.Bytes[8:10], u.Bytes[10:16])
}

// textFrom wraps an optional string as a nullable text column value.
func textFrom(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// generateOrderNumber builds a human-readable order number of the form
// ORD-20250615-4821. The suffix is random rather than sequential so order
// volume is not inferable from consecutive numbers.
func generateOrderNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), n.Int64()), nil
}
