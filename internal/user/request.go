package user

import (
	"bytes"
	"encoding/json"
)

type RegisterDeviceRequest struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type UpdateContactsRequest struct {
	UserID   string         `json:"user_id"`
	Contacts []ContactInput `json:"contacts"`
	Append   bool           `json:"append"`
}

// ContactInput accepts either a bare phone string or a {"name","phone"} object.
type ContactInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (c *ContactInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.Phone)
	}
	type plain ContactInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = ContactInput(p)
	return nil
}
