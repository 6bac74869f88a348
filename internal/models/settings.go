package models

import "encoding/json"

// UserSettings is one complete preference bag per user. Persisted rows
// may predate fields added later; MigrateSettings fills the gaps from
// defaults so every loaded value is complete.
type UserSettings struct {
	Theme         ThemeSettings        `json:"theme"`
	Notifications NotificationSettings `json:"notifications"`
	Language      string               `json:"language"`
	TimeFormat    string               `json:"time_format"`
	DataExport    DataExportSettings   `json:"data_export"`
}

type ThemeSettings struct {
	Mode         string `json:"mode"`
	PrimaryColor string `json:"primary_color"`
	MenuStyle    string `json:"menu_style"`
}

type NotificationSettings struct {
	Enabled bool                    `json:"enabled"`
	Sound   bool                    `json:"sound"`
	Desktop bool                    `json:"desktop"`
	Email   bool                    `json:"email"`
	Types   NotificationTypeToggles `json:"types"`
	Timing  NotificationTimingFlags `json:"timing"`
}

type NotificationTypeToggles struct {
	Lessons  bool `json:"lessons"`
	Payments bool `json:"payments"`
	Students bool `json:"students"`
	System   bool `json:"system"`
}

type NotificationTimingFlags struct {
	OneDay     bool `json:"1_day"`
	ThreeHours bool `json:"3_hours"`
	OneHour    bool `json:"1_hour"`
	TenMinutes bool `json:"10_minutes"`
}

type DataExportSettings struct {
	Format          string `json:"format"`
	IncludeStudents bool   `json:"include_students"`
	IncludeLessons  bool   `json:"include_lessons"`
	IncludePayments bool   `json:"include_payments"`
}

// DefaultSettings returns the complete baseline preference set.
func DefaultSettings() UserSettings {
	return UserSettings{
		Theme: ThemeSettings{
			Mode:         "light",
			PrimaryColor: "indigo",
			MenuStyle:    "floating",
		},
		Notifications: NotificationSettings{
			Enabled: true,
			Sound:   true,
			Desktop: true,
			Email:   false,
			Types: NotificationTypeToggles{
				Lessons:  true,
				Payments: true,
				Students: true,
				System:   true,
			},
			Timing: NotificationTimingFlags{
				OneDay:     true,
				ThreeHours: true,
				OneHour:    true,
				TenMinutes: true,
			},
		},
		Language:   "tr",
		TimeFormat: "24h",
		DataExport: DataExportSettings{
			Format:          "json",
			IncludeStudents: true,
			IncludeLessons:  true,
			IncludePayments: true,
		},
	}
}

// settingsPatch mirrors UserSettings with optional fields so partial
// persisted rows can be distinguished from explicit values.
type settingsPatch struct {
	Theme *struct {
		Mode         *string `json:"mode"`
		PrimaryColor *string `json:"primary_color"`
		MenuStyle    *string `json:"menu_style"`
	} `json:"theme"`
	Notifications *struct {
		Enabled *bool `json:"enabled"`
		Sound   *bool `json:"sound"`
		Desktop *bool `json:"desktop"`
		Email   *bool `json:"email"`
		Types   *struct {
			Lessons  *bool `json:"lessons"`
			Payments *bool `json:"payments"`
			Students *bool `json:"students"`
			System   *bool `json:"system"`
		} `json:"types"`
		Timing *struct {
			OneDay     *bool `json:"1_day"`
			ThreeHours *bool `json:"3_hours"`
			OneHour    *bool `json:"1_hour"`
			TenMinutes *bool `json:"10_minutes"`
		} `json:"timing"`
	} `json:"notifications"`
	Language   *string `json:"language"`
	TimeFormat *string `json:"time_format"`
	DataExport *struct {
		Format          *string `json:"format"`
		IncludeStudents *bool   `json:"include_students"`
		IncludeLessons  *bool   `json:"include_lessons"`
		IncludePayments *bool   `json:"include_payments"`
	} `json:"data_export"`
}

// MigrateSettings upgrades a partial persisted settings document to the
// complete current shape. Every field absent from raw keeps its default.
func MigrateSettings(raw []byte) (UserSettings, error) {
	out := DefaultSettings()
	if len(raw) == 0 {
		return out, nil
	}

	var patch settingsPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return out, err
	}

	if patch.Theme != nil {
		applyString(&out.Theme.Mode, patch.Theme.Mode)
		applyString(&out.Theme.PrimaryColor, patch.Theme.PrimaryColor)
		applyString(&out.Theme.MenuStyle, patch.Theme.MenuStyle)
	}
	if patch.Notifications != nil {
		applyBool(&out.Notifications.Enabled, patch.Notifications.Enabled)
		applyBool(&out.Notifications.Sound, patch.Notifications.Sound)
		applyBool(&out.Notifications.Desktop, patch.Notifications.Desktop)
		applyBool(&out.Notifications.Email, patch.Notifications.Email)
		if patch.Notifications.Types != nil {
			applyBool(&out.Notifications.Types.Lessons, patch.Notifications.Types.Lessons)
			applyBool(&out.Notifications.Types.Payments, patch.Notifications.Types.Payments)
			applyBool(&out.Notifications.Types.Students, patch.Notifications.Types.Students)
			applyBool(&out.Notifications.Types.System, patch.Notifications.Types.System)
		}
		if patch.Notifications.Timing != nil {
			applyBool(&out.Notifications.Timing.OneDay, patch.Notifications.Timing.OneDay)
			applyBool(&out.Notifications.Timing.ThreeHours, patch.Notifications.Timing.ThreeHours)
			applyBool(&out.Notifications.Timing.OneHour, patch.Notifications.Timing.OneHour)
			applyBool(&out.Notifications.Timing.TenMinutes, patch.Notifications.Timing.TenMinutes)
		}
	}
	applyString(&out.Language, patch.Language)
	applyString(&out.TimeFormat, patch.TimeFormat)
	if patch.DataExport != nil {
		applyString(&out.DataExport.Format, patch.DataExport.Format)
		applyBool(&out.DataExport.IncludeStudents, patch.DataExport.IncludeStudents)
		applyBool(&out.DataExport.IncludeLessons, patch.DataExport.IncludeLessons)
		applyBool(&out.DataExport.IncludePayments, patch.DataExport.IncludePayments)
	}

	return out, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
