package user

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Contact struct {
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Phone string `bson:"phone" json:"phone"`
}

type UserProfile struct {
	UserID            string    `bson:"_id" json:"user_id"`
	DeviceTokens      []string  `bson:"device_tokens" json:"device_tokens"`
	EmergencyContacts []Contact `bson:"emergency_contacts" json:"emergency_contacts"`
	PreventionEnabled bool      `bson:"prevention_enabled" json:"prevention_enabled"`
	CreatedAt         time.Time `bson:"created_at,omitempty" json:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at,omitempty" json:"updated_at"`
}

// userDocument is the stored shape. Older writers kept contacts as bare phone
// strings and some used camelCase field names, so contacts are decoded loosely
// and normalized before leaving the repository.
type userDocument struct {
	UserID            string        `bson:"_id"`
	DeviceTokens      []string      `bson:"device_tokens"`
	LegacyTokens      []string      `bson:"deviceTokens"`
	EmergencyContacts []interface{} `bson:"emergency_contacts"`
	LegacyContacts    []interface{} `bson:"emergencyContacts"`
	PreventionEnabled bool          `bson:"prevention_enabled"`
	CreatedAt         time.Time     `bson:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at"`
}

func (d *userDocument) toProfile() *UserProfile {
	return &UserProfile{
		UserID:            d.UserID,
		DeviceTokens:      unionTokens(d.DeviceTokens, d.LegacyTokens),
		EmergencyContacts: unionContacts(NormalizeContacts(d.EmergencyContacts), NormalizeContacts(d.LegacyContacts)),
		PreventionEnabled: d.PreventionEnabled,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

var phoneKeys = []string{"phone", "phone_number", "phoneNumber", "number", "mobile"}

// NormalizeContacts converts every stored contact shape into a Contact. Entries
// without a usable phone keep an empty Phone so callers can log and skip them.
func NormalizeContacts(raw []interface{}) []Contact {
	contacts := make([]Contact, 0, len(raw))
	for _, entry := range raw {
		var fields map[string]interface{}
		switch v := entry.(type) {
		case string:
			contacts = append(contacts, Contact{Phone: strings.TrimSpace(v)})
			continue
		case primitive.D:
			fields = make(map[string]interface{}, len(v))
			for _, e := range v {
				fields[e.Key] = e.Value
			}
		case bson.M:
			fields = v
		case map[string]interface{}:
			fields = v
		case Contact:
			contacts = append(contacts, v)
			continue
		default:
			contacts = append(contacts, Contact{})
			continue
		}

		c := Contact{Name: stringField(fields, "name")}
		for _, k := range phoneKeys {
			if p := stringField(fields, k); p != "" {
				c.Phone = p
				break
			}
		}
		contacts = append(contacts, c)
	}
	return contacts
}

func stringField(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case int32, int64, float64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// unionContacts keeps the first contact per phone. Contacts without a phone are
// all kept so the fan-out can count them as skipped.
func unionContacts(lists ...[]Contact) []Contact {
	seen := make(map[string]struct{})
	out := make([]Contact, 0)
	for _, list := range lists {
		for _, c := range list {
			if c.Phone != "" {
				if _, ok := seen[c.Phone]; ok {
					continue
				}
				seen[c.Phone] = struct{}{}
			}
			out = append(out, c)
		}
	}
	return out
}

func unionTokens(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, t := range list {
			if _, ok := seen[t]; ok || t == "" {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
