package search

import "strings"

// searchIDPrefix marks a free-text search value as an exact id lookup.
const searchIDPrefix = "id:"

// NoOffset is the sentinel meaning "start from the beginning".
const NoOffset = -1

// Mode discriminates the four mutually exclusive search modes. Exactly one
// mode is active per request.
type Mode int

const (
	// ModeByID is an exact id lookup selected by the "id:" search prefix.
	ModeByID Mode = iota
	// ModeFreeText matches the term against username, email and name fields.
	ModeFreeText
	// ModeAttributes filters on explicitly supplied per-field values.
	ModeAttributes
	// ModeListAll is an unfiltered listing.
	ModeListAll
)

func (m Mode) String() string {
	switch m {
	case ModeByID:
		return "by_id"
	case ModeFreeText:
		return "free_text"
	case ModeAttributes:
		return "attributes"
	default:
		return "list_all"
	}
}

// Recognized attribute filter fields. These double as the HTTP query
// parameter names and the keys accepted in the generic "q" string.
const (
	FieldLastName            = "lastName"
	FieldFirstName           = "firstName"
	FieldEmail               = "email"
	FieldUsername            = "username"
	FieldEmailVerified       = "emailVerified"
	FieldPhoneNumber         = "phoneNumber"
	FieldPhoneNumberLocale   = "phoneNumberLocale"
	FieldPhoneNumberVerified = "phoneNumberVerified"
	FieldIDPAlias            = "idpAlias"
	FieldIDPUserID           = "idpUserId"
	FieldEnabled             = "enabled"
	FieldExact               = "exact"
)

// recognizedFields is the closed set of keys an attribute filter may carry.
// Nothing outside this set may be injected through the generic query string.
var recognizedFields = map[string]bool{
	FieldLastName:            true,
	FieldFirstName:           true,
	FieldEmail:               true,
	FieldUsername:            true,
	FieldEmailVerified:       true,
	FieldPhoneNumber:         true,
	FieldPhoneNumberLocale:   true,
	FieldPhoneNumberVerified: true,
	FieldIDPAlias:            true,
	FieldIDPUserID:           true,
	FieldEnabled:             true,
	FieldExact:               true,
}

// Criteria is the normalized form of a user search request. Mode decides
// which of the payload fields are meaningful.
type Criteria struct {
	Mode Mode

	// ModeByID
	ID string

	// ModeFreeText
	Term string

	// ModeFreeText / ModeAttributes
	Attributes map[string]string

	// ModeAttributes widens the search to service accounts; the other
	// modes exclude them.
	IncludeServiceAccounts bool

	// Pagination window, parsed independently of mode selection.
	First int // NoOffset when the caller supplied none
	Max   int

	// GroupIDs narrows the directory scan to members of these groups.
	// Populated by the visibility layer, never from request input.
	GroupIDs []string
}

// Params carries the raw query parameters of one search request. Pointer
// fields distinguish "absent" from a zero value.
type Params struct {
	Search              *string
	LastName            *string
	FirstName           *string
	Email               *string
	Username            *string
	EmailVerified       *bool
	PhoneNumber         *string
	PhoneNumberLocale   *string
	PhoneNumberVerified *bool
	IDPAlias            *string
	IDPUserID           *string
	Enabled             *bool
	Exact               *bool
	Query               *string // generic "q" structured query string
	First               *int
	Max                 *int
}

// Build turns raw query parameters into a Criteria. Pure function: no
// side effects, no external calls. Mode priority, first match wins:
//
//  1. search beginning with "id:" selects an exact id lookup; every other
//     parameter is ignored.
//  2. any other search value selects free text, folding in only the
//     enabled filter; the structured per-field parameters are silently
//     dropped.
//  3. any structured field or a generic query string selects an attribute
//     filter. The generic string is parsed first so explicitly named
//     parameters win on key collision.
//  4. otherwise an unfiltered listing.
func Build(p Params) Criteria {
	c := Criteria{
		First: NoOffset,
		Max:   defaultMaxResults,
	}
	if p.First != nil {
		c.First = *p.First
	}
	if p.Max != nil {
		c.Max = *p.Max
	}

	if p.Search != nil {
		if strings.HasPrefix(*p.Search, searchIDPrefix) {
			c.Mode = ModeByID
			c.ID = strings.TrimSpace(strings.TrimPrefix(*p.Search, searchIDPrefix))
			return c
		}

		c.Mode = ModeFreeText
		c.Term = strings.TrimSpace(*p.Search)
		c.Attributes = map[string]string{}
		putBool(c.Attributes, FieldEnabled, p.Enabled)
		return c
	}

	// Parse the generic query first; named parameters overwrite below.
	attrs := ParseQuery(stringOr(p.Query, ""))

	putString(attrs, FieldLastName, p.LastName)
	putString(attrs, FieldFirstName, p.FirstName)
	putString(attrs, FieldEmail, p.Email)
	putString(attrs, FieldUsername, p.Username)
	putBool(attrs, FieldEmailVerified, p.EmailVerified)
	putString(attrs, FieldPhoneNumber, p.PhoneNumber)
	putString(attrs, FieldPhoneNumberLocale, p.PhoneNumberLocale)
	putBool(attrs, FieldPhoneNumberVerified, p.PhoneNumberVerified)
	putString(attrs, FieldIDPAlias, p.IDPAlias)
	putString(attrs, FieldIDPUserID, p.IDPUserID)
	putBool(attrs, FieldEnabled, p.Enabled)
	putBool(attrs, FieldExact, p.Exact)

	if len(attrs) > 0 {
		c.Mode = ModeAttributes
		c.Attributes = attrs
		c.IncludeServiceAccounts = true
		return c
	}

	c.Mode = ModeListAll
	return c
}

// defaultMaxResults mirrors models.DefaultMaxResults; kept local so the
// builder stays free of model imports and trivially testable.
const defaultMaxResults = 100

func putString(attrs map[string]string, field string, v *string) {
	if v != nil {
		attrs[field] = *v
	}
}

func putBool(attrs map[string]string, field string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		attrs[field] = "true"
	} else {
		attrs[field] = "false"
	}
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
