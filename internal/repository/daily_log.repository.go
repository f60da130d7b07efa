package repository

import (
	"context"
	"errors"
	"fmt"
	"healthassistant/internal/models"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStoreWriteConflict means another writer updated the same DailyLog between
// our read and our write. Callers re-read and re-apply.
var ErrStoreWriteConflict = errors.New("daily log write conflict")

// MutateFunc appends new children (ID zero) to the loaded log and refreshes its
// derived totals. It must not touch children that already have an ID.
type MutateFunc func(day *models.DailyLog) error

type DailyLogRepository interface {
	FindByUserAndDate(ctx context.Context, userID, date string) (*models.DailyLog, error)
	FindRange(ctx context.Context, userID, from, to string) ([]models.DailyLog, error)
	Append(ctx context.Context, userID, date string, mutate MutateFunc) (*models.DailyLog, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type dailyLogRepository struct {
	db *gorm.DB
}

func NewDailyLogRepository(db *gorm.DB) DailyLogRepository {
	return &dailyLogRepository{db: db}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Meals", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp, id") }).
		Preload("SleepSessions", func(db *gorm.DB) *gorm.DB { return db.Order("\"end\", id") }).
		Preload("Vitals", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp, id") })
}

// FindByUserAndDate returns nil without an error when nothing was logged that day.
func (r *dailyLogRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*models.DailyLog, error) {
	var day models.DailyLog
	err := withChildren(r.db.WithContext(ctx)).
		Where("user_id = ? AND date = ?", userID, date).
		First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find daily log %s/%s: %w", userID, date, err)
	}
	return &day, nil
}

// FindRange returns the logs with from <= date <= to in ascending date order.
func (r *dailyLogRepository) FindRange(ctx context.Context, userID, from, to string) ([]models.DailyLog, error) {
	var days []models.DailyLog
	err := withChildren(r.db.WithContext(ctx)).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&days).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily logs %s [%s, %s]: %w", userID, from, to, err)
	}
	log.Printf("DailyLogRepository: found %d logs for user %s between %s and %s", len(days), userID, from, to)
	return days, nil
}

// Append loads (creating if needed) the log for userID/date, applies mutate and
// writes the new children and totals in one transaction. The row version is
// compared and bumped, so a concurrent writer makes this return
// ErrStoreWriteConflict and nothing is committed.
func (r *dailyLogRepository) Append(ctx context.Context, userID, date string, mutate MutateFunc) (*models.DailyLog, error) {
	var result models.DailyLog

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := models.DailyLog{UserID: userID, Date: date}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return fmt.Errorf("failed to create daily log: %w", err)
		}

		var day models.DailyLog
		if err := withChildren(tx).Where("user_id = ? AND date = ?", userID, date).First(&day).Error; err != nil {
			return fmt.Errorf("failed to load daily log: %w", err)
		}
		version := day.Version

		if err := mutate(&day); err != nil {
			return err
		}

		if err := insertNew(tx, day.ID, day.Meals); err != nil {
			return fmt.Errorf("failed to insert meals: %w", err)
		}
		if err := insertNew(tx, day.ID, day.SleepSessions); err != nil {
			return fmt.Errorf("failed to insert sleep sessions: %w", err)
		}
		if err := insertNew(tx, day.ID, day.Vitals); err != nil {
			return fmt.Errorf("failed to insert vitals: %w", err)
		}

		if err := commitTotals(tx, &day, version); err != nil {
			return err
		}
		day.Version = version + 1
		result = day
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *dailyLogRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := tx.Model(&models.DailyLog{}).Select("id").Where("user_id = ?", userID)
		for _, model := range []interface{}{&models.MealEntry{}, &models.SleepSession{}, &models.VitalReading{}} {
			if err := tx.Where("daily_log_id IN (?)", ids).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("user_id = ?", userID).Delete(&models.DailyLog{}).Error
	})
}

// commitTotals writes the derived totals if the stored version still equals
// version, bumping it by one.
func commitTotals(tx *gorm.DB, day *models.DailyLog, version int) error {
	res := tx.Model(&models.DailyLog{}).
		Where("id = ? AND version = ?", day.ID, version).
		Updates(map[string]interface{}{
			"calories_consumed":        day.CaloriesConsumed,
			"calorie_budget":           day.CalorieBudget,
			"calorie_budget_remaining": day.CalorieBudgetRemaining,
			"budget_known":             day.BudgetKnown,
			"version":                  version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update daily log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStoreWriteConflict
	}
	return nil
}

type child interface {
	models.MealEntry | models.SleepSession | models.VitalReading
}

// insertNew writes the entries that have not been persisted yet.
func insertNew[T child](tx *gorm.DB, dailyLogID uint, entries []T) error {
	for i := range entries {
		id, setParent := childKeys(&entries[i])
		if *id != 0 {
			continue
		}
		*setParent = dailyLogID
		if err := tx.Create(&entries[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func childKeys(v interface{}) (id *uint, parent *uint) {
	switch e := v.(type) {
	case *models.MealEntry:
		return &e.ID, &e.DailyLogID
	case *models.SleepSession:
		return &e.ID, &e.DailyLogID
	case *models.VitalReading:
		return &e.ID, &e.DailyLogID
	}
	panic(fmt.Sprintf("unexpected daily log child %T", v))
}
