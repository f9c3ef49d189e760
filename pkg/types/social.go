package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SocialLinks holds the storefront's social network profiles, stored as a JSON column.
type SocialLinks struct {
	Instagram *string `json:"instagram,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	LinkedIn  *string `json:"linkedin,omitempty"`
	YouTube   *string `json:"youtube,omitempty"`
	TikTok    *string `json:"tiktok,omitempty"`
	Website   *string `json:"website,omitempty"`
}

func (s SocialLinks) Value() (driver.Value, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("social links: %w", err)
	}
	return string(payload), nil
}

func (s *SocialLinks) Scan(value interface{}) error {
	if value == nil {
		*s = SocialLinks{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("social links: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*s = SocialLinks{}
		return nil
	}
	return json.Unmarshal(raw, s)
}
