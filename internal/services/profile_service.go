package services

import (
	"context"
	"errors"
	"fmt"
	"healthassistant/internal/generation"
	"healthassistant/internal/health"
	"healthassistant/internal/knowledge"
	"healthassistant/internal/models"
	"healthassistant/internal/repository"
	"log"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
)

// ProfileView is a stored profile with the values derived from it.
type ProfileView struct {
	Profile  *models.UserProfile `json:"profile"`
	Complete bool                `json:"complete"`
	BMR      *float64            `json:"bmr_kcal,omitempty" example:"1673.75"`
	TDEE     *float64            `json:"tdee_kcal,omitempty" example:"2008.5"`
	Budget   *float64            `json:"daily_budget_kcal,omitempty" example:"2008.5"`
	BMI      *models.GradeResult `json:"bmi,omitempty"`
}

// ProfileService owns profile merges. Writes take the same per-user lock as
// daily log writes.
type ProfileService struct {
	profiles    repository.UserProfileRepository
	retriever   *knowledge.Retriever
	contracts   *generation.Contracts
	multipliers health.ActivityMultipliers
	locks       *KeyedMutex
}

func NewProfileService(
	profiles repository.UserProfileRepository,
	retriever *knowledge.Retriever,
	contracts *generation.Contracts,
	multipliers health.ActivityMultipliers,
	locks *KeyedMutex,
) *ProfileService {
	return &ProfileService{
		profiles:    profiles,
		retriever:   retriever,
		contracts:   contracts,
		multipliers: multipliers,
		locks:       locks,
	}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*ProfileView, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return s.view(profile), nil
}

// Update validates the patch and merges the fields it sets into the stored
// profile, creating the profile on first use.
func (s *ProfileService) Update(ctx context.Context, userID string, patch *generation.ProfileOutput) (*ProfileView, error) {
	if err := s.contracts.ValidateProfile(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &models.UserProfile{UserID: userID, ActivityLevel: models.ActivitySedentary}
	}
	MergeProfile(profile, patch)

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	log.Printf("ProfileService: updated profile for user %s (complete=%v)", userID, profile.Complete())
	return s.view(profile), nil
}

// MergeProfile copies every field the patch sets.
func MergeProfile(p *models.UserProfile, patch *generation.ProfileOutput) {
	if patch.Sex != nil {
		sex := models.Sex(*patch.Sex)
		p.Sex = &sex
	}
	if patch.HeightCM != nil {
		h := *patch.HeightCM
		p.HeightCM = &h
	}
	if patch.WeightKG != nil {
		w := *patch.WeightKG
		p.WeightKG = &w
	}
	if patch.Age != nil {
		a := *patch.Age
		p.Age = &a
	}
	if patch.ActivityLevel != nil {
		p.ActivityLevel = models.ActivityLevel(*patch.ActivityLevel)
	}
	if patch.GoalOffsetKcal != nil {
		p.GoalOffsetKcal = *patch.GoalOffsetKcal
	}
}

// Energy returns nil when the profile cannot produce a budget.
func (s *ProfileService) Energy(profile *models.UserProfile) *health.Energy {
	if !profile.Complete() {
		return nil
	}
	e, err := health.ComputeEnergy(profile, s.multipliers)
	if err != nil {
		return nil
	}
	return &e
}

func (s *ProfileService) view(profile *models.UserProfile) *ProfileView {
	v := &ProfileView{Profile: profile, Complete: profile.Complete()}
	if e := s.Energy(profile); e != nil {
		v.BMR, v.TDEE, v.Budget = &e.BMR, &e.TDEE, &e.Budget
	}
	v.BMI = s.bmi(profile, nil)
	return v
}

// bmi grades the profile height with weightKG, or the profile weight when
// weightKG is nil.
func (s *ProfileService) bmi(profile *models.UserProfile, weightKG *float64) *models.GradeResult {
	if weightKG == nil && profile != nil {
		weightKG = profile.WeightKG
	}
	if profile == nil || profile.HeightCM == nil || weightKG == nil {
		return nil
	}
	value, err := health.BMIValue(*weightKG, *profile.HeightCM)
	if err != nil {
		return nil
	}
	full, err := s.retriever.FullChronic()
	if err != nil {
		log.Printf("ProfileService: %v", err)
		return nil
	}
	reading := models.VitalReading{Type: models.VitalBMI, Value: &value}
	band, err := health.GradeReading(full.Chronic, &reading)
	if err != nil {
		log.Printf("ProfileService: %v", err)
		return nil
	}
	g := health.GradeResult(&reading, band)
	return &g
}
