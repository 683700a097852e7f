// Package identity derives display handles and canonical roll numbers from
// institutional email addresses. All derivations are pure functions of the
// input address; callers decide how to degrade when a derivation misses.
package identity

import (
	"regexp"
	"strings"
	"unicode"
)

// localPartPattern is the roll-number grammar over an institutional local
// part: letters, a 2-digit admission year, department letters, and a numeric
// roll suffix. Anchored so trailing junk fails the match instead of being
// truncated away.
var localPartPattern = regexp.MustCompile(`^(?i)([a-z]+)([0-9]{2})([a-z]+)([0-9]+)$`)

// Resolver holds the recognized email domains. The institutional domain
// gates handle and roll-number derivation; the fallback domain is accepted
// for sign-in only and never yields derived fields.
type Resolver struct {
	institutional string
	fallback      string
}

func NewResolver(institutional, fallback string) *Resolver {
	return &Resolver{
		institutional: strings.ToLower(institutional),
		fallback:      strings.ToLower(fallback),
	}
}

// AllowedDomain reports whether the address belongs to one of the recognized
// sign-in domains.
func (r *Resolver) AllowedDomain(email string) bool {
	return r.institutionalAddress(email) ||
		strings.HasSuffix(strings.ToLower(email), "@"+r.fallback)
}

// InstitutionalDomain returns the configured institutional domain.
func (r *Resolver) InstitutionalDomain() string {
	return r.institutional
}

// DeriveHandle returns the display handle for an institutional address: the
// leading alphabetic run of the local part, uppercased. The second return is
// false when the address is empty, outside the institutional domain, or has
// no alphabetic lead to work with.
func (r *Resolver) DeriveHandle(email string) (string, bool) {
	if !r.institutionalAddress(email) {
		return "", false
	}
	local := localPart(email)
	var b strings.Builder
	for _, c := range local {
		if !unicode.IsLetter(c) {
			break
		}
		b.WriteRune(unicode.ToUpper(c))
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// DeriveRollNumber returns the canonical roll number for an institutional
// address whose local part matches the roll grammar. The numeric suffix is
// zero-padded to 4 digits; wider suffixes pass through unpadded. The second
// return is false for non-institutional addresses and for institutional
// local parts that do not fit the grammar (the "unrecognized format" case).
func (r *Resolver) DeriveRollNumber(email string) (string, bool) {
	if !r.institutionalAddress(email) {
		return "", false
	}
	m := localPartPattern.FindStringSubmatch(localPart(email))
	if m == nil {
		return "", false
	}
	year, dept, roll := m[2], strings.ToUpper(m[3]), m[4]
	for len(roll) < 4 {
		roll = "0" + roll
	}
	return "20" + year + dept + roll, true
}

// ChatUID normalizes a display name into a messaging-collaborator key:
// lowercase, trimmed, spaces replaced with hyphens.
func ChatUID(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(name)), " ", "-")
}

func (r *Resolver) institutionalAddress(email string) bool {
	return email != "" && strings.HasSuffix(strings.ToLower(email), "@"+r.institutional)
}

func localPart(email string) string {
	local := strings.ToLower(email)
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	return local
}
