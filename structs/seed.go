package structs

import "waitfaster_server/structs/tables"

// SeedFile is the YAML document accepted by the --seed flag.
type SeedFile struct {
	Users []SeedUser     `yaml:"users"`
	Menu  []SeedMenuItem `yaml:"menu"`
}

type SeedUser struct {
	Username string      `yaml:"username"`
	Role     tables.Role `yaml:"role"`
}

type SeedMenuItem struct {
	Id          string  `yaml:"id"` // optional, generated when empty
	Name        string  `yaml:"name"`
	Price       float64 `yaml:"price"`
	Description string  `yaml:"description"`
}
