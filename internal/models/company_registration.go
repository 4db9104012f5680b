package models

import (
	"gorm.io/gorm"
)

// RegistrantCompany tags rows written by the company registration form.
const RegistrantCompany = "empresa"

type CompanyFields struct {
	CompanyName        string   `json:"company_name"`
	Location           string   `json:"location"`
	ContactName        string   `json:"contact_name"`
	Role               string   `json:"role"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	HasCompanion       bool     `json:"has_companion"`
	CompanionName      string   `json:"companion_name"`
	CompanionEmail     string   `json:"companion_email"`
	CompanionPhone     string   `json:"companion_phone"`
	HasExtraAttendees  bool     `json:"has_extra_attendees"`
	ExtraAttendeeCount int      `json:"extra_attendee_count"`
	ExtraAttendeeNames []string `json:"extra_attendee_names" gorm:"serializer:json"`
	VacancyLevel       string   `json:"vacancy_level"`
	Tracks             string   `json:"tracks"` // comma separated track ids
	WantsStand         bool     `json:"wants_stand"`
	StandDetails       string   `json:"stand_details"`
	JoinsJobBoard      bool     `json:"joins_job_board"`
	BringsItems        bool     `json:"brings_items"`
	ItemDescription    string   `json:"item_description"`
	LogoURL            string   `json:"logo_url"`
	Description        string   `json:"description"`
	DataUseConsent     bool     `json:"data_use_consent"`
}

type CompanyRegistration struct {
	gorm.Model
	Reference      string `json:"reference" gorm:"uniqueIndex"`
	RegistrantType string `json:"registrant_type" gorm:"index"`
	CompanyFields  `gorm:"embedded"`
}
