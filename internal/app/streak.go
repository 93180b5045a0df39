package app

import (
	"context"
	"time"

	"learnquiz-service/internal/domain"
)

// StreakRepository persists per-user streak state. GetOrCreate returns a
// zero-count state when the user has none yet.
type StreakRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (domain.StreakState, error)
	Save(ctx context.Context, state *domain.StreakState) error
}

// ProfileRepository persists per-user settings with get-or-create semantics.
type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (domain.UserProfile, error)
	Save(ctx context.Context, profile domain.UserProfile) error
}

// StreakService maintains day-counted consecutive-activity streaks.
type StreakService struct {
	streaks  StreakRepository
	profiles ProfileRepository
	now      func() time.Time
}

func NewStreakService(streaks StreakRepository, profiles ProfileRepository) *StreakService {
	return &StreakService{streaks: streaks, profiles: profiles, now: time.Now}
}

// NewStreakServiceWithClock is test-only for deterministic dates.
func NewStreakServiceWithClock(streaks StreakRepository, profiles ProfileRepository, now func() time.Time) *StreakService {
	return &StreakService{streaks: streaks, profiles: profiles, now: now}
}

// Get returns the user's streak state, creating an empty one lazily.
func (s *StreakService) Get(ctx context.Context, userID int64) (domain.StreakState, error) {
	return s.streaks.GetOrCreate(ctx, userID)
}

// Update advances the user's streak for today in the user's timezone.
// tzOverride, when a valid IANA identifier, takes precedence over the
// stored profile timezone; invalid values degrade silently to the fallback.
// The second return reports whether state changed; a repeat call on the
// same local day is a no-op.
func (s *StreakService) Update(ctx context.Context, userID int64, tzOverride string) (domain.StreakInfo, error) {
	loc, err := s.location(ctx, userID, tzOverride)
	if err != nil {
		return domain.StreakInfo{}, err
	}
	today := domain.NewDate(s.now().In(loc))

	state, err := s.streaks.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.StreakInfo{}, err
	}
	updated := advanceStreak(&state, today)
	if updated {
		if err := s.streaks.Save(ctx, &state); err != nil {
			return domain.StreakInfo{}, err
		}
	}
	return streakInfo(state, updated), nil
}

// Timezone resolves the location used to compute "today" for the user.
func (s *StreakService) Timezone(ctx context.Context, userID int64, override string) (string, error) {
	loc, err := s.location(ctx, userID, override)
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}

func (s *StreakService) location(ctx context.Context, userID int64, override string) (*time.Location, error) {
	if override != "" {
		if loc, err := time.LoadLocation(override); err == nil {
			return loc, nil
		}
	}
	profile, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolveLocation(profile.Timezone), nil
}

// resolveLocation maps a timezone identifier to a location, falling back to
// UTC for empty or unknown names.
func resolveLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// advanceStreak applies the daily transition rule in place and reports
// whether state changed. Rules, given today in the user's timezone:
// first-ever activity starts at 1; the same day is a no-op; the day after
// the last active date extends the streak; any other gap (or a future
// last-active date from clock skew) resets to 1.
func advanceStreak(state *domain.StreakState, today domain.Date) bool {
	switch {
	case state.LastActiveDate == nil:
		state.CurrentStreak = 1
	case today.DaysSince(*state.LastActiveDate) == 0:
		return false
	case today.DaysSince(*state.LastActiveDate) == 1:
		state.CurrentStreak++
	default:
		state.CurrentStreak = 1
	}

	d := today
	state.LastActiveDate = &d
	if state.CurrentStreak > state.LongestStreak {
		state.LongestStreak = state.CurrentStreak
	}
	return true
}

func streakInfo(state domain.StreakState, updated bool) domain.StreakInfo {
	return domain.StreakInfo{
		CurrentStreak:  state.CurrentStreak,
		LongestStreak:  state.LongestStreak,
		StreakUpdated:  updated,
		LastActiveDate: state.LastActiveDate,
	}
}
