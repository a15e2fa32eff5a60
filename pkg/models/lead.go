package models

// Record is one raw Airtable record: a stable id, a creation timestamp
// assigned by Airtable, and an open-ended bag of fields.
type Record struct {
	ID          string                 `json:"id"`
	CreatedTime string                 `json:"createdTime"`
	Fields      map[string]interface{} `json:"fields"`
}

// Lead is the normalized local shape of a remote record. Every attribute
// except ID and CreatedTime is best-effort: absent fields stay empty and
// are omitted from JSON.
type Lead struct {
	ID           string   `json:"id"`
	CreatedTime  string   `json:"createdTime"`
	Name         string   `json:"name,omitempty"`
	Email        string   `json:"email,omitempty"`
	Company      string   `json:"company,omitempty"`
	Status       string   `json:"status,omitempty"`
	Source       string   `json:"source,omitempty"`
	Value        *float64 `json:"value,omitempty"`
	Owner        string   `json:"owner,omitempty"`
	LinkedinURL  string   `json:"linkedinUrl,omitempty"`
	FollowUpDate string   `json:"followUpDate,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Raw          Record   `json:"raw"`
}

// Clone returns a deep copy of the lead, including the raw field bag,
// so cache snapshots can't be mutated through shared references.
func (l Lead) Clone() Lead {
	out := l
	if l.Value != nil {
		v := *l.Value
		out.Value = &v
	}
	if l.Raw.Fields != nil {
		fields := make(map[string]interface{}, len(l.Raw.Fields))
		for k, v := range l.Raw.Fields {
			fields[k] = v
		}
		out.Raw.Fields = fields
	}
	return out
}

// CloneLeads deep-copies a lead list.
func CloneLeads(leads []Lead) []Lead {
	if leads == nil {
		return nil
	}
	out := make([]Lead, len(leads))
	for i, l := range leads {
		out[i] = l.Clone()
	}
	return out
}
