package dto

import "time"

type AddInput struct {
	Category string
	Minutes  int
}

type Unlock struct {
	Category  string
	Level     int
	Threshold int
	At        time.Time
}

type AddOutput struct {
	Category string
	Value    int
	Level    int
	Unlocks  []Unlock
}

type CategoryOutput struct {
	Category    string
	Title       string
	Rule        string
	Periodic    bool
	Value       int
	Level       int
	MaxLevel    int
	Progress    float64
	UnitsToNext int
	LastUpdated time.Time
}
