// Package bloodtype holds the eight ABO/Rh blood types and the medical
// donor-to-recipient compatibility relation between them. The relation is a
// fixed fact table, kept as data so the symmetry between DonationTargets and
// CompatibleDonorTypes stays mechanically checkable.
package bloodtype

import (
	"github.com/bloodbridge/matching-service/internal/apperrors"
)

type Type string

const (
	ONeg  Type = "O-"
	OPos  Type = "O+"
	ANeg  Type = "A-"
	APos  Type = "A+"
	BNeg  Type = "B-"
	BPos  Type = "B+"
	ABNeg Type = "AB-"
	ABPos Type = "AB+"
)

// all fixes the iteration order so derived sets are deterministic.
var all = []Type{ONeg, OPos, ANeg, APos, BNeg, BPos, ABNeg, ABPos}

// donationTargets maps a donor type to every recipient type it may serve.
var donationTargets = map[Type][]Type{
	ONeg:  {ONeg, OPos, ANeg, APos, BNeg, BPos, ABNeg, ABPos}, // universal donor
	OPos:  {OPos, APos, BPos, ABPos},
	ANeg:  {ANeg, APos, ABNeg, ABPos},
	APos:  {APos, ABPos},
	BNeg:  {BNeg, BPos, ABNeg, ABPos},
	BPos:  {BPos, ABPos},
	ABNeg: {ABNeg, ABPos},
	ABPos: {ABPos}, // universal recipient only
}

// All returns the eight blood types in canonical order.
func All() []Type {
	out := make([]Type, len(all))
	copy(out, all)

	return out
}

// Parse validates a raw string against the eight known types.
func Parse(s string) (Type, error) {
	t := Type(s)
	if _, ok := donationTargets[t]; !ok {
		return "", &apperrors.InvalidBloodTypeError{Value: s}
	}

	return t, nil
}

// DonationTargets returns every recipient type the given donor type can
// donate to.
func DonationTargets(donor Type) ([]Type, error) {
	targets, ok := donationTargets[donor]
	if !ok {
		return nil, &apperrors.InvalidBloodTypeError{Value: string(donor)}
	}

	out := make([]Type, len(targets))
	copy(out, targets)

	return out, nil
}

// CompatibleDonorTypes returns every donor type that can donate to the given
// recipient type, in canonical order.
func CompatibleDonorTypes(recipient Type) ([]Type, error) {
	if _, ok := donationTargets[recipient]; !ok {
		return nil, &apperrors.InvalidBloodTypeError{Value: string(recipient)}
	}

	var donors []Type

	for _, donor := range all {
		if CanDonate(donor, recipient) {
			donors = append(donors, donor)
		}
	}

	return donors, nil
}

// CanDonate reports whether donor blood may be transfused into recipient.
// Unknown types are simply not compatible with anything.
func CanDonate(donor, recipient Type) bool {
	for _, target := range donationTargets[donor] {
		if target == recipient {
			return true
		}
	}

	return false
}

// Strings converts a type slice to plain strings for queries and responses.
func Strings(types []Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}

	return out
}
