package contacts

import (
	"encoding/json"
	"maps"
)

// Canonical field names of the default alias table.
const (
	FieldFirstName    = "firstName"
	FieldLastName     = "lastName"
	FieldBusinessName = "businessName"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldInstagram    = "instagram"
	FieldTikTok       = "tiktok"
	FieldLinkedIn     = "linkedin"
	FieldLocation     = "location"
	FieldJobTitle     = "jobTitle"
	FieldCity         = "city"
	FieldState        = "state"
	FieldCountry      = "country"
)

// ChannelFields are the fields through which a contact can be reached. A
// record needs at least one of them to be kept.
var ChannelFields = []string{FieldEmail, FieldPhone, FieldInstagram, FieldTikTok}

// ContactRecord is one imported contact. ID is assigned when the record is
// built and only identifies it within this process; two records with the
// same content still get different IDs.
type ContactRecord struct {
	ID     string
	Fields map[string]string
}

// Get returns the value of field, or "" when it is unset.
func (c ContactRecord) Get(field string) string {
	return c.Fields[field]
}

// Usable reports whether the record has at least one contact channel.
func (c ContactRecord) Usable() bool {
	for _, f := range ChannelFields {
		if c.Fields[f] != "" {
			return true
		}
	}
	return false
}

// Context flattens the record into a render context keyed by field name.
func (c ContactRecord) Context() map[string]string {
	return maps.Clone(c.Fields)
}

func (c ContactRecord) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(c.Fields)+1)
	maps.Copy(flat, c.Fields)
	flat["id"] = c.ID
	return json.Marshal(flat)
}

func (c *ContactRecord) UnmarshalJSON(data []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	c.ID = flat["id"]
	delete(flat, "id")
	c.Fields = flat
	return nil
}
