package domain

// DayHours describes the opening window of one weekday.
type DayHours struct {
	IsOpen    bool   `json:"is_open" yaml:"is_open"`
	OpenTime  string `json:"open_time" yaml:"open_time"`
	CloseTime string `json:"close_time" yaml:"close_time"`
}

// StoreHours is indexed Monday-first: index 0 is Monday, 6 is Sunday.
type StoreHours []DayHours

// DaysPerWeek is the expected length of StoreHours.
const DaysPerWeek = 7
