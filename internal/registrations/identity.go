package registrations

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/aura-events/backend/internal/models"
)

// ErrMissingField is returned when an identity constructor is given blank
// required input.
var ErrMissingField = errors.New("missing required field")

// Identity is the canonical registrant record the allocator consumes. It is
// built only through RegularIdentity or OutsourceIdentity, which unify the
// two registrant kinds at the allocator boundary.
type Identity struct {
	UserID     string
	Name       string
	Department string
	Position   string
	Type       models.RegisterType
}

// RegularIdentity builds the identity of a staff member whose details were
// resolved against the external directory.
func RegularIdentity(userid, name, department, position string) (Identity, error) {
	userid = strings.TrimSpace(userid)
	name = strings.TrimSpace(name)
	if userid == "" || name == "" {
		return Identity{}, ErrMissingField
	}
	return Identity{
		UserID:     userid,
		Name:       name,
		Department: strings.TrimSpace(department),
		Position:   strings.TrimSpace(position),
		Type:       models.RegisterTypeRegular,
	}, nil
}

// OutsourceIdentity builds the identity of an outsourced worker from
// self-declared details. The userid is synthesized deterministically from
// the normalized name and department, so the same person retrying produces
// the same id and trips the already-registered check.
func OutsourceIdentity(name, department string) (Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Identity{}, ErrMissingField
	}
	department = strings.TrimSpace(department)
	return Identity{
		UserID:     synthesizeUserID(name, department),
		Name:       name,
		Department: department,
		Type:       models.RegisterTypeOutsource,
	}, nil
}

// synthesizeUserID derives a stable opaque id from name+department. Case and
// internal whitespace differences collapse to the same id.
func synthesizeUserID(name, department string) string {
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	sum := sha256.Sum256([]byte(norm(name) + "|" + norm(department)))
	return "os-" + hex.EncodeToString(sum[:6])
}
