package app

import (
	"context"
	"time"

	"learnquiz-service/internal/domain"
)

// Profile is the /me view: account fields plus settings.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Timezone string `json:"timezone"`
}

// ProfileService reads and updates the requesting user's own profile.
type ProfileService struct {
	users    UserRepository
	profiles ProfileRepository
}

func NewProfileService(users UserRepository, profiles ProfileRepository) *ProfileService {
	return &ProfileService{users: users, profiles: profiles}
}

func (s *ProfileService) Get(ctx context.Context, userID int64) (Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{ID: user.ID, Username: user.Username, Email: user.Email, Timezone: profile.Timezone}, nil
}

// SetTimezone stores a new timezone identifier after validating it against
// the IANA database.
func (s *ProfileService) SetTimezone(ctx context.Context, userID int64, tz string) (Profile, error) {
	if _, err := time.LoadLocation(tz); err != nil || tz == "" {
		return Profile{}, domain.NewValidationError("timezone", "unknown timezone identifier")
	}
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	profile.Timezone = tz
	if err := s.profiles.Save(ctx, profile); err != nil {
		return Profile{}, err
	}
	return s.Get(ctx, userID)
}
