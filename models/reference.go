package models

// Location is one row of the work unit reference table.
type Location struct {
	Assignment   string `yaml:"assignment" json:"lotacao"`
	Unit         string `yaml:"unit" json:"vinculacao"`
	Neighborhood string `yaml:"neighborhood" json:"bairro"`
}

// ReferenceData holds the slow-changing lookup tables.
type ReferenceData struct {
	Roles     []string   `yaml:"roles" json:"roles"`
	Locations []Location `yaml:"locations" json:"locations"`
}
