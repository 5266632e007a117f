package entity

type User struct {
	Base

	Name string `gorm:"unique"`

	// Timezone is the IANA name of the user's local timezone. Streak day
	// boundaries are computed in this timezone. Empty means UTC.
	Timezone string
}
