package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/internal/models"
	"github.com/aureeture/aureeture-api/internal/repository"
	"github.com/aureeture/aureeture-api/pkg/logger"
)

// VerifyResult is the response of the post-login handshake.
type VerifyResult struct {
	User              *models.User `json:"user"`
	Role              models.Role  `json:"role"`
	ClaimedMentorships int         `json:"claimedMentorships"`
}

// AuthService runs the post-login handshake: sync the user row, claim any
// relationships waiting on this email, and report the derived role.
type AuthService struct {
	users      repository.UserStore
	reconciler *MentorshipService
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserStore, reconciler *MentorshipService) *AuthService {
	return &AuthService{users: users, reconciler: reconciler}
}

// Verify upserts the local user for a validated identity and claims
// email-keyed mentorships. Claim failure is non-fatal; the reconciler will
// pick those rows up on the mentee's next roster read.
func (s *AuthService) Verify(ctx context.Context, clerkID, email, name string) (*VerifyResult, error) {
	user, err := s.users.UpsertUser(ctx, clerkID, email, name)
	if err != nil {
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}

	claimed, err := s.reconciler.ClaimForMentee(ctx, clerkID, user.Email)
	if err != nil {
		logger.Warn("Mentorship claim failed during verification",
			zap.String("clerk_id", clerkID),
			zap.Error(err))
	}

	return &VerifyResult{
		User:               user,
		Role:               user.Role,
		ClaimedMentorships: len(claimed),
	}, nil
}
