package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/jobarch/pkg/table"
)

const (
	EnvDataProfileTable = "JOBARCH_DATA_PROFILE_TABLE"
	EnvDataProfileKey   = "JOBARCH_DATA_PROFILE_KEY"
	EnvDataProfileSheet = "JOBARCH_DATA_PROFILE_SHEET"
)

// DefaultSections are the description columns rendered on role cards.
var DefaultSections = []string{
	"Qualifications",
	"Key Responsibilities",
	"Competencies 1",
	"Competencies 2",
	"Competencies 3",
	"Education",
	"Experience",
	"Skills",
	"Certifications",
	"Working Conditions",
}

// TableConfig locates one spreadsheet in storage.
type TableConfig struct {
	Key   string `toml:"key"`
	Sheet string `toml:"sheet"`
}

// ColumnsConfig names the header cells of the profile table.
type ColumnsConfig struct {
	Family      string `toml:"family"`
	SubFamily   string `toml:"sub_family"`
	Profile     string `toml:"profile"`
	Grade       string `toml:"grade"`
	CareerPath  string `toml:"career_path"`
	JobCode     string `toml:"job_code"`
	Description string `toml:"description"`
}

// DataConfig maps logical table names to spreadsheets and describes the profile table.
type DataConfig struct {
	Tables       map[string]TableConfig `toml:"tables"`
	ProfileTable string                 `toml:"profile_table"`
	Columns      ColumnsConfig          `toml:"columns"`
	Sections     []string               `toml:"sections"`
}

// Sources converts the configured tables into table store sources.
func (c *DataConfig) Sources() map[string]table.Source {
	sources := make(map[string]table.Source, len(c.Tables))
	for name, t := range c.Tables {
		sources[name] = table.Source{Key: t.Key, Sheet: t.Sheet}
	}
	return sources
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DataConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Tables merge by name.
func (c *DataConfig) Merge(overlay *DataConfig) {
	if len(overlay.Tables) > 0 && c.Tables == nil {
		c.Tables = make(map[string]TableConfig, len(overlay.Tables))
	}
	for name, t := range overlay.Tables {
		existing := c.Tables[name]
		if t.Key != "" {
			existing.Key = t.Key
		}
		if t.Sheet != "" {
			existing.Sheet = t.Sheet
		}
		c.Tables[name] = existing
	}
	if overlay.ProfileTable != "" {
		c.ProfileTable = overlay.ProfileTable
	}
	if overlay.Sections != nil {
		c.Sections = overlay.Sections
	}
	c.Columns.merge(&overlay.Columns)
}

func (c *DataConfig) loadDefaults() {
	if c.ProfileTable == "" {
		c.ProfileTable = "profiles"
	}
	if c.Tables == nil {
		c.Tables = make(map[string]TableConfig)
	}
	if _, ok := c.Tables[c.ProfileTable]; !ok {
		c.Tables[c.ProfileTable] = TableConfig{Key: "data/job_architecture.xlsx"}
	}
	if c.Sections == nil {
		c.Sections = DefaultSections
	}
	c.Columns.loadDefaults()
}

func (c *DataConfig) loadEnv() {
	if v := os.Getenv(EnvDataProfileTable); v != "" {
		c.ProfileTable = v
	}
	t := c.Tables[c.ProfileTable]
	if v := os.Getenv(EnvDataProfileKey); v != "" {
		t.Key = v
	}
	if v := os.Getenv(EnvDataProfileSheet); v != "" {
		t.Sheet = v
	}
	c.Tables[c.ProfileTable] = t
}

func (c *DataConfig) validate() error {
	for name, t := range c.Tables {
		if t.Key == "" {
			return fmt.Errorf("table %s: key required", name)
		}
	}
	if _, ok := c.Tables[c.ProfileTable]; !ok {
		return fmt.Errorf("profile_table %s not configured", c.ProfileTable)
	}
	return nil
}

func (c *ColumnsConfig) loadDefaults() {
	if c.Family == "" {
		c.Family = "Job Family"
	}
	if c.SubFamily == "" {
		c.SubFamily = "Sub Job Family"
	}
	if c.Profile == "" {
		c.Profile = "Job Profile"
	}
	if c.Grade == "" {
		c.Grade = "Global Grade"
	}
	if c.CareerPath == "" {
		c.CareerPath = "Career Path"
	}
	if c.JobCode == "" {
		c.JobCode = "Full Job Code"
	}
	if c.Description == "" {
		c.Description = "Role Description"
	}
}

func (c *ColumnsConfig) merge(overlay *ColumnsConfig) {
	if overlay.Family != "" {
		c.Family = overlay.Family
	}
	if overlay.SubFamily != "" {
		c.SubFamily = overlay.SubFamily
	}
	if overlay.Profile != "" {
		c.Profile = overlay.Profile
	}
	if overlay.Grade != "" {
		c.Grade = overlay.Grade
	}
	if overlay.CareerPath != "" {
		c.CareerPath = overlay.CareerPath
	}
	if overlay.JobCode != "" {
		c.JobCode = overlay.JobCode
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}
