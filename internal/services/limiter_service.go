package services

import (
	"time"

	"nudge_backend/internal/models"
	"nudge_backend/internal/repositories"
	"nudge_backend/pkg/apperrors"
)

const bytesPerGB = 1024 * 1024 * 1024

// Unlimited marks a quota with no ceiling.
const Unlimited = -1

// PlanLimits is the static quota table for one plan. The table is
// configuration, never mutated at runtime.
type PlanLimits struct {
	Projects    int     `json:"projects"`
	TeamMembers int     `json:"teamMembers"`
	StorageGB   float64 `json:"storageGB"`
	PriceUSD    float64 `json:"priceUSD"`
}

var planLimits = map[models.SubscriptionPlan]PlanLimits{
	models.PlanStarter:    {Projects: 5, TeamMembers: 4, StorageGB: 0.1, PriceUSD: 0},
	models.PlanPro:        {Projects: 100, TeamMembers: 15, StorageGB: 10, PriceUSD: 29},
	models.PlanEnterprise: {Projects: Unlimited, TeamMembers: Unlimited, StorageGB: 100, PriceUSD: 79},
}

// GetPlanLimits is a total lookup: unknown values fall back to STARTER.
func GetPlanLimits(plan models.SubscriptionPlan) PlanLimits {
	if limits, ok := planLimits[plan]; ok {
		return limits
	}
	return planLimits[models.PlanStarter]
}

type ProjectLimitCheck struct {
	CanCreate    bool                    `json:"canCreate"`
	CurrentCount int64                   `json:"currentCount"`
	Limit        int                     `json:"limit"`
	Plan         models.SubscriptionPlan `json:"plan"`
}

type MemberLimitCheck struct {
	CanAdd       bool                    `json:"canAdd"`
	CurrentCount int64                   `json:"currentCount"`
	Limit        int                     `json:"limit"`
	Plan         models.SubscriptionPlan `json:"plan"`
}

type StorageLimitCheck struct {
	CanUpload bool                    `json:"canUpload"`
	CurrentGB float64                 `json:"currentGB"`
	LimitGB   float64                 `json:"limitGB"`
	Plan      models.SubscriptionPlan `json:"plan"`
}

type UsageSnapshot struct {
	Projects    int64   `json:"projects"`
	TeamMembers int64   `json:"teamMembers"`
	StorageGB   float64 `json:"storageGB"`
}

type UsageSummary struct {
	Plan               models.SubscriptionPlan   `json:"plan"`
	Status             models.SubscriptionStatus `json:"status"`
	Limits             PlanLimits                `json:"limits"`
	Usage              UsageSnapshot             `json:"usage"`
	CurrentPeriodStart *time.Time                `json:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd   *time.Time                `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd  bool                      `json:"cancelAtPeriodEnd"`
}

// LimiterService gates creation of metered resources against the
// subject's plan. Unlike the authorization resolver, a missing user or
// project here is a real error (404 at the API), not a quiet denial.
type LimiterService interface {
	CanCreateProject(userID string) (*ProjectLimitCheck, error)
	// CanAddTeamMember checks the quota of the PROJECT CREATOR's plan,
	// not the inviting admin's: the quota belongs to whoever owns the
	// project's subscription.
	CanAddTeamMember(userID, projectID string) (*MemberLimitCheck, error)
	CanUploadFile(userID string, fileSizeBytes int64) (*StorageLimitCheck, error)
	// GetUsageSummary is the read-only aggregate for display, not
	// enforcement.
	GetUsageSummary(userID string) (*UsageSummary, error)
}

type limiterService struct {
	userRepo         repositories.UserRepository
	projectRepo      repositories.ProjectRepository
	fileRepo         repositories.FileRepository
	subscriptionRepo repositories.SubscriptionRepository
}

func NewLimiterService(
	userRepo repositories.UserRepository,
	projectRepo repositories.ProjectRepository,
	fileRepo repositories.FileRepository,
	subscriptionRepo repositories.SubscriptionRepository,
) LimiterService {
	return &limiterService{
		userRepo:         userRepo,
		projectRepo:      projectRepo,
		fileRepo:         fileRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

// resolvePlan returns the user's current plan and subscription row.
// A user with no Subscription row is on STARTER.
func (s *limiterService) resolvePlan(userID string) (models.SubscriptionPlan, *models.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSubscriptionNotFound) {
			return models.PlanStarter, nil, nil
		}
		return "", nil, err
	}
	return subscription.Plan, subscription, nil
}

func (s *limiterService) CanCreateProject(userID string) (*ProjectLimitCheck, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	plan, _, err := s.resolvePlan(userID)
	if err != nil {
		return nil, err
	}
	limits := GetPlanLimits(plan)

	count, err := s.projectRepo.CountForUser(userID)
	if err != nil {
		return nil, err
	}

	return &ProjectLimitCheck{
		CanCreate:    limits.Projects == Unlimited || count < int64(limits.Projects),
		CurrentCount: count,
		Limit:        limits.Projects,
		Plan:         plan,
	}, nil
}

func (s *limiterService) CanAddTeamMember(userID, projectID string) (*MemberLimitCheck, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}

	plan, _, err := s.resolvePlan(project.CreatorID)
	if err != nil {
		return nil, err
	}
	limits := GetPlanLimits(plan)

	count, err := s.projectRepo.CountDistinctMembersForCreator(project.CreatorID)
	if err != nil {
		return nil, err
	}

	return &MemberLimitCheck{
		CanAdd:       limits.TeamMembers == Unlimited || count < int64(limits.TeamMembers),
		CurrentCount: count,
		Limit:        limits.TeamMembers,
		Plan:         plan,
	}, nil
}

func (s *limiterService) CanUploadFile(userID string, fileSizeBytes int64) (*StorageLimitCheck, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	plan, _, err := s.resolvePlan(userID)
	if err != nil {
		return nil, err
	}
	limits := GetPlanLimits(plan)

	usedBytes, err := s.fileRepo.SumSizeByUploader(userID)
	if err != nil {
		return nil, err
	}

	currentGB := float64(usedBytes) / bytesPerGB
	afterGB := float64(usedBytes+fileSizeBytes) / bytesPerGB

	return &StorageLimitCheck{
		CanUpload: limits.StorageGB == Unlimited || afterGB <= limits.StorageGB,
		CurrentGB: currentGB,
		LimitGB:   limits.StorageGB,
		Plan:      plan,
	}, nil
}

func (s *limiterService) GetUsageSummary(userID string) (*UsageSummary, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	plan, subscription, err := s.resolvePlan(userID)
	if err != nil {
		return nil, err
	}
	limits := GetPlanLimits(plan)

	projects, err := s.projectRepo.CountForUser(userID)
	if err != nil {
		return nil, err
	}
	members, err := s.projectRepo.CountDistinctMembersForCreator(userID)
	if err != nil {
		return nil, err
	}
	usedBytes, err := s.fileRepo.SumSizeByUploader(userID)
	if err != nil {
		return nil, err
	}

	summary := &UsageSummary{
		Plan:   plan,
		Status: models.SubscriptionStatusTrial,
		Limits: limits,
		Usage: UsageSnapshot{
			Projects:    projects,
			TeamMembers: members,
			StorageGB:   float64(usedBytes) / bytesPerGB,
		},
	}

	if subscription != nil {
		summary.Status = subscription.Status
		summary.CurrentPeriodStart = subscription.CurrentPeriodStart
		summary.CurrentPeriodEnd = subscription.CurrentPeriodEnd
		summary.CancelAtPeriodEnd = subscription.CancelAtPeriodEnd
	}

	return summary, nil
}
