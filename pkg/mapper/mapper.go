package mapper

import (
	"strconv"
	"strings"
	"time"

	"leads-manager/pkg/models"
)

// Alias chains for each lead attribute, in priority order. Earlier entries
// are newer schema names; later entries cover historical bases still in use.
// Kept as data so each chain can be exercised on its own.
var (
	nameAliases     = []string{"Name", "FullName", "Contact", "Title"}
	emailAliases    = []string{"Email", "Email Address"}
	companyAliases  = []string{"Company", "Account", "Organization"}
	statusAliases   = []string{"Status", "Stage", "State"}
	sourceAliases   = []string{"Source", "Channel"}
	valueAliases    = []string{"Value", "Amount", "Deal Value"}
	ownerAliases    = []string{"Owner", "Assignee", "Rep"}
	linkedinAliases = []string{"Linkedin_url", "LinkedIn", "LinkedIn URL", "Linkedin URL"}
	followupAliases = []string{"Follow up date", "Follow-up Date", "Follow Up Date", "FollowUp", "Next Follow Up"}
	notesAliases    = []string{"Notes", "Note", "Lead Notes"}
)

// Options carries per-deployment field-name overrides. An override, when
// set, is consulted before the built-in alias chain.
type Options struct {
	LinkedinField string
	FollowupField string
	NotesField    string
}

// MapRecord converts a raw Airtable record into a Lead. It is total over
// arbitrary field bags: malformed values degrade to absent attributes and
// nothing here can fail.
func MapRecord(rec models.Record, opts Options) models.Lead {
	f := rec.Fields

	lead := models.Lead{
		ID:          rec.ID,
		CreatedTime: rec.CreatedTime,
		Name:        firstString(f, nil, nameAliases),
		Email:       firstString(f, nil, emailAliases),
		Company:     firstString(f, nil, companyAliases),
		Status:      firstString(f, nil, statusAliases),
		Source:      firstString(f, nil, sourceAliases),
		Owner:       firstString(f, nil, ownerAliases),
		LinkedinURL: firstString(f, overrides(opts.LinkedinField), linkedinAliases),
		Notes:       firstString(f, overrides(opts.NotesField), notesAliases),
		Raw:         rec,
	}

	if raw, ok := firstValue(f, nil, valueAliases); ok {
		lead.Value = ParseValue(raw)
	}
	if raw, ok := firstValue(f, overrides(opts.FollowupField), followupAliases); ok {
		lead.FollowUpDate = NormalizeDate(raw)
	}

	return lead
}

func overrides(field string) []string {
	if field == "" {
		return nil
	}
	return []string{field}
}

// firstValue returns the first usable value among the override keys then
// the alias chain. Empty strings don't count as present.
func firstValue(f map[string]interface{}, override, aliases []string) (interface{}, bool) {
	for _, key := range append(override, aliases...) {
		v, ok := f[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// firstString resolves an alias chain to a string attribute. Numeric values
// are formatted; other non-string types are skipped and the chain continues.
func firstString(f map[string]interface{}, override, aliases []string) string {
	for _, key := range append(override, aliases...) {
		switch v := f[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

// ParseValue parses a deal value from a native number or a string with
// currency symbols and separators stripped. Unparseable input yields nil.
func ParseValue(raw interface{}) *float64 {
	switch v := raw.(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '+' {
				return r
			}
			return -1
		}, v)
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
}

// NormalizeDate reduces a date-like value to calendar-date form, YYYY-MM-DD.
// A string no layout can parse passes through verbatim; this never errors.
func NormalizeDate(raw interface{}) string {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC().Format("2006-01-02")
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC().Format("2006-01-02")
			}
		}
		return v
	default:
		return ""
	}
}
