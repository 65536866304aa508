package account

import (
	"github.com/angelmondragon/storefront-demo/internal/session"
)

// Profile is the read-only account page.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

func DefaultProfile() Profile {
	return Profile{
		Name:     "John Doe",
		Email:    "john@example.com",
		Phone:    "+1 (555) 123-4567",
		Location: "New York, USA",
	}
}

// SettingsUpdate is a partial settings change. Nil fields keep their current value.
type SettingsUpdate struct {
	EmailNotifications *bool `json:"email_notifications"`
	PushNotifications  *bool `json:"push_notifications"`
}

// ProfileFor returns the profile shown to sess. A signed-in shopper sees their own name and email.
func ProfileFor(sess *session.Session) Profile {
	p := DefaultProfile()
	if sess == nil {
		return p
	}
	if user, ok := sess.User(); ok {
		if user.Name != "" {
			p.Name = user.Name
		}
		if user.Email != "" {
			p.Email = user.Email
		}
	}
	return p
}

// ApplySettings merges update into the session settings and returns the result.
func ApplySettings(sess *session.Session, update SettingsUpdate) session.Settings {
	current := sess.Settings()
	if update.EmailNotifications != nil {
		current.EmailNotifications = *update.EmailNotifications
	}
	if update.PushNotifications != nil {
		current.PushNotifications = *update.PushNotifications
	}
	return sess.UpdateSettings(current)
}
