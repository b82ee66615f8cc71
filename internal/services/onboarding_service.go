package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/repository"
	"github.com/aureeture/aureeture-api/pkg/logger"
	"github.com/aureeture/aureeture-api/pkg/metrics"
	"github.com/aureeture/aureeture-api/pkg/objectstorage"
)

var ErrInvalidUpload = errors.New("invalid upload payload")

// OnboardingService handles role-profile creation and updates. Each role
// onboards through an idempotent upsert keyed by user, so re-submitting the
// form edits the profile instead of failing.
type OnboardingService struct {
	users    repository.UserStore
	profiles repository.ProfileStore
	storage  *objectstorage.Client
}

// NewOnboardingService creates a new OnboardingService
func NewOnboardingService(users repository.UserStore, profiles repository.ProfileStore, storage *objectstorage.Client) *OnboardingService {
	return &OnboardingService{users: users, profiles: profiles, storage: storage}
}

// OnboardMentor upserts the caller's mentor profile, uploading any attached
// resume and avatar first.
func (s *OnboardingService) OnboardMentor(ctx context.Context, user *models.User, req *models.MentorOnboardingRequest) (*models.MentorProfile, error) {
	resumeURL, err := s.uploadDocument(ctx, user.ClerkID, "resumes", req.Resume)
	if err != nil {
		metrics.RoleOnboardings.WithLabelValues("mentor", "error").Inc()
		return nil, err
	}
	avatarURL, err := s.uploadAvatar(ctx, user.ClerkID, req.Avatar)
	if err != nil {
		metrics.RoleOnboardings.WithLabelValues("mentor", "error").Inc()
		return nil, err
	}

	profile, err := s.profiles.UpsertMentor(ctx, user.ID, user.ClerkID, user.Email, req, resumeURL, avatarURL)
	if err != nil {
		metrics.RoleOnboardings.WithLabelValues("mentor", "error").Inc()
		return nil, fmt.Errorf("failed to upsert mentor profile: %w", err)
	}

	s.assignRole(ctx, user, models.RoleMentor)
	metrics.RoleOnboardings.WithLabelValues("mentor", "success").Inc()

	return profile, nil
}

// OnboardStudent upserts the caller's student profile
func (s *OnboardingService) OnboardStudent(ctx context.Context, user *models.User, req *models.StudentOnboardingRequest) (*models.StudentProfile, error) {
	avatarURL, err := s.uploadAvatar(ctx, user.ClerkID, req.Avatar)
	if err != nil {
		metrics.RoleOnboardings.WithLabelValues("student", "error").Inc()
		return nil, err
	}

	profile, err := s.profiles.UpsertStudent(ctx, user.ID, user.ClerkID, user.Email, req, avatarURL)
	if err != nil {
		metrics.RoleOnboardings.WithLabelValues("student", "error").Inc()
		return nil, fmt.Errorf("failed to upsert student profile: %w", err)
	}

	s.assignRole(ctx, user, models.RoleStudent)
	metrics.RoleOnboardings.WithLabelValues("student", "success").Inc()

	return profile, nil
}

// OnboardFounder upserts the caller's founder profile
func (s *OnboardingService) OnboardFounder(ctx context.Context, user *models.User, req *models.FounderOnboardingRequest) (*models.FounderProfile, error) {
	profile, err := s.profiles.UpsertFounder(ctx, user.ID, user.ClerkID, user.Email, req)
	if err != nil {
		metrics.RoleOnboardings.WithLabelValues("founder", "error").Inc()
		return nil, fmt.Errorf("failed to upsert founder profile: %w", err)
	}

	s.assignRole(ctx, user, models.RoleFounder)
	metrics.RoleOnboardings.WithLabelValues("founder", "success").Inc()

	return profile, nil
}

// Status reports whether a role profile exists and completed onboarding
func (s *OnboardingService) Status(ctx context.Context, clerkID string, role models.Role) (*models.OnboardingStatus, error) {
	var exists, onboarded bool
	var err error

	switch role {
	case models.RoleMentor:
		var p *models.MentorProfile
		p, err = s.profiles.GetMentorByClerkID(ctx, clerkID)
		if err == nil {
			exists, onboarded = true, p.IsOnboarded
		}
	case models.RoleStudent:
		var p *models.StudentProfile
		p, err = s.profiles.GetStudentByClerkID(ctx, clerkID)
		if err == nil {
			exists, onboarded = true, p.IsOnboarded
		}
	case models.RoleFounder:
		var p *models.FounderProfile
		p, err = s.profiles.GetFounderByClerkID(ctx, clerkID)
		if err == nil {
			exists, onboarded = true, p.IsOnboarded
		}
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}

	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load %s profile: %w", role, err)
	}

	return &models.OnboardingStatus{Exists: exists, IsOnboarded: onboarded}, nil
}

// assignRole records the derived role tag; failure is logged, not surfaced,
// since the profile write already succeeded.
func (s *OnboardingService) assignRole(ctx context.Context, user *models.User, role models.Role) {
	if err := s.users.UpdateUserRole(ctx, user.ClerkID, role); err != nil {
		logger.Warn("Role tag update failed",
			zap.String("clerk_id", user.ClerkID),
			zap.String("role", string(role)),
			zap.Error(err))
	}
}

func (s *OnboardingService) uploadAvatar(ctx context.Context, clerkID, data string) (string, error) {
	if data == "" || s.storage == nil {
		return "", nil
	}

	contentType := dataURIContentType(data, "image/jpeg")
	if err := s.storage.ValidateImageType(contentType); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidUpload, err)
	}
	if err := s.storage.ValidateSize(data); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidUpload, err)
	}

	key := fmt.Sprintf("avatars/%s-%d", clerkID, time.Now().Unix())
	url, err := s.storage.Upload(ctx, data, key, contentType)
	if err != nil {
		return "", fmt.Errorf("avatar upload failed: %w", err)
	}
	return url, nil
}

func (s *OnboardingService) uploadDocument(ctx context.Context, clerkID, prefix, data string) (string, error) {
	if data == "" || s.storage == nil {
		return "", nil
	}

	if err := s.storage.ValidateSize(data); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidUpload, err)
	}

	key := fmt.Sprintf("%s/%s-%d", prefix, clerkID, time.Now().Unix())
	url, err := s.storage.Upload(ctx, data, key, dataURIContentType(data, "application/pdf"))
	if err != nil {
		return "", fmt.Errorf("document upload failed: %w", err)
	}
	return url, nil
}

// dataURIContentType extracts the media type from a data URI payload,
// falling back when the client sent raw base64.
func dataURIContentType(data, fallback string) string {
	if !strings.HasPrefix(data, "data:") {
		return fallback
	}
	rest := strings.TrimPrefix(data, "data:")
	if i := strings.IndexAny(rest, ";,"); i > 0 {
		return rest[:i]
	}
	return fallback
}
