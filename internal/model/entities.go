package model

import "time"

// Quote is a travel quote issued on a site for a destination.
type Quote struct {
	ID            int64     `json:"id" yaml:"id"`
	SiteID        int64     `json:"site_id" yaml:"site_id"`
	DestinationID int64     `json:"destination_id" yaml:"destination_id"`
	DateQuoted    time.Time `json:"date_quoted" yaml:"date_quoted"`
}

// Destination is a country a quote can point to.
type Destination struct {
	ID           int64  `json:"id" yaml:"id"`
	CountryName  string `json:"country_name" yaml:"country_name"`
	Conjunction  string `json:"conjunction" yaml:"conjunction"`
	Name         string `json:"name" yaml:"name"`
	ComputerName string `json:"computer_name" yaml:"computer_name"`
}

// Site is the web property a quote was made on.
type Site struct {
	ID  int64  `json:"id" yaml:"id"`
	URL string `json:"url" yaml:"url"`
}

// User is a message recipient.
type User struct {
	ID        int64  `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
}

// Fixtures is a batch of entities, as loaded from a YAML seed file.
type Fixtures struct {
	Quotes       []Quote       `yaml:"quotes"`
	Destinations []Destination `yaml:"destinations"`
	Sites        []Site        `yaml:"sites"`
	Users        []User        `yaml:"users"`
}
