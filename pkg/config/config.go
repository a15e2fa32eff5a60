package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration values
type Config struct {
	AirtableAPIKey string
	AirtableBaseID string
	AirtableTable  string

	// Field-name overrides for deployments whose Airtable schema
	// doesn't use the built-in names.
	StatusField   string
	LinkedinField string
	FollowupField string
	NotesField    string

	AuthUser string
	AuthPass string

	Production bool
	Port       string
}

// LoadConfig reads configuration from environment variables
func LoadConfig() *Config {
	table := os.Getenv("AIRTABLE_TABLE")
	if table == "" {
		table = os.Getenv("AIRTABLE_TABLE_ID")
	}
	if table == "" {
		table = "Leads"
	}

	statusField := os.Getenv("AIRTABLE_STATUS_FIELD")
	if statusField == "" {
		statusField = "Status"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		AirtableAPIKey: os.Getenv("AIRTABLE_API_KEY"),
		AirtableBaseID: os.Getenv("AIRTABLE_BASE_ID"),
		AirtableTable:  table,
		StatusField:    statusField,
		LinkedinField:  os.Getenv("AIRTABLE_LINKEDIN_FIELD"),
		FollowupField:  os.Getenv("AIRTABLE_FOLLOWUP_FIELD"),
		NotesField:     os.Getenv("AIRTABLE_NOTES_FIELD"),
		AuthUser:       os.Getenv("AUTH_USER"),
		AuthPass:       os.Getenv("AUTH_PASS"),
		Production:     os.Getenv("APP_ENV") == "production",
		Port:           port,
	}
}

// Validate checks that the values required to reach Airtable are present.
// The table name always has a default, so in practice only the key and
// base can be missing.
func (c *Config) Validate() error {
	var missing []string
	if c.AirtableAPIKey == "" {
		missing = append(missing, "AIRTABLE_API_KEY")
	}
	if c.AirtableBaseID == "" {
		missing = append(missing, "AIRTABLE_BASE_ID")
	}
	if c.AirtableTable == "" {
		missing = append(missing, "AIRTABLE_TABLE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
