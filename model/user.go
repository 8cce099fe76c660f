package model

import "time"

// DayCounts is one habit bucket: how many good and bad habit events the user
// logged on a single calendar day. Both counters stay >= 0.
type DayCounts struct {
	GoodCount int `bson:"goodCount" json:"goodCount"`
	BadCount  int `bson:"badCount" json:"badCount"`
}

type User struct {
	UserID       string    `bson:"user_id" json:"user_id"`
	Username     string    `bson:"username" json:"username" validate:"required,min=3,max=30"`
	Email        string    `bson:"email" json:"email" validate:"required,email"`
	Password     string    `bson:"password" json:"-"`    // Argon2id hash, never serialized
	ProfileImage string    `bson:"profile_image" json:"profile_image"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`

	// Timezone is the IANA zone name last supplied by the client on a habit
	// mutation. The rollover sweep only visits users with a recorded zone.
	Timezone string `bson:"timezone,omitempty" json:"timezone,omitempty"`

	// DailyHabits maps a day key ("2006-01-02", normalized to the user's
	// timezone at write time) to that day's counters. Entries are created
	// lazily on first increment or eagerly by the rollover sweep, and are
	// never removed while the account exists.
	DailyHabits map[string]DayCounts `bson:"dailyHabits" json:"dailyHabits"`

	TwoFactorSecret  string   `bson:"two_factor_secret,omitempty" json:"-"`
	TwoFactorEnabled bool     `bson:"two_factor_enabled" json:"two_factor_enabled"`
	RecoveryCodes    []string `bson:"recovery_codes,omitempty" json:"-"`
}
