package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lemartins07/english-assessment-service/internal/models"
	"github.com/lemartins07/english-assessment-service/internal/repositories"
)

// sessionRecord is the persistence shape of a session. Responses and
// result are stored as jsonb so the variant-tagged response payloads
// survive round-trips without a table per variant.
type sessionRecord struct {
	ID           string         `gorm:"primaryKey;size:36"`
	UserID       string         `gorm:"not null;size:64;index"`
	BlueprintID  string         `gorm:"not null;size:64;index"`
	CreatedAt    time.Time      `gorm:"not null"`
	CurrentIndex int            `gorm:"not null;default:0"`
	Responses    datatypes.JSON `gorm:"type:jsonb"`
	Result       datatypes.JSON `gorm:"type:jsonb"`
	Version      int            `gorm:"not null;default:1"`
	UpdatedAt    time.Time
}

func (sessionRecord) TableName() string {
	return "assessment_sessions"
}

// SessionRepository is the gorm-backed implementation of
// repositories.SessionRepository with optimistic version checking.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a Postgres session repository.
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// AutoMigrate creates or updates the sessions table.
func (r *SessionRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&sessionRecord{})
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	session.Version = 1
	record, err := toRecord(session)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var record sessionRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return fromRecord(&record)
}

// Update saves the session only when the stored version still matches
// session.Version, bumping the version on success. A zero-row update
// means another writer got there first.
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	record, err := toRecord(session)
	if err != nil {
		return err
	}
	record.Version = session.Version + 1

	res := r.db.WithContext(ctx).
		Model(&sessionRecord{}).
		Where("id = ? AND version = ?", session.ID, session.Version).
		Updates(map[string]interface{}{
			"current_index": record.CurrentIndex,
			"responses":     record.Responses,
			"result":        record.Result,
			"version":       record.Version,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var exists int64
		r.db.WithContext(ctx).Model(&sessionRecord{}).Where("id = ?", session.ID).Count(&exists)
		if exists == 0 {
			return repositories.ErrSessionNotFound
		}
		return repositories.ErrVersionConflict
	}

	session.Version = record.Version
	return nil
}

func toRecord(s *models.Session) (*sessionRecord, error) {
	responses, err := json.Marshal(s.Responses)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal responses: %w", err)
	}
	result, err := json.Marshal(s.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &sessionRecord{
		ID:           s.ID,
		UserID:       s.UserID,
		BlueprintID:  s.BlueprintID,
		CreatedAt:    s.CreatedAt,
		CurrentIndex: s.CurrentIndex,
		Responses:    datatypes.JSON(responses),
		Result:       datatypes.JSON(result),
		Version:      s.Version,
	}, nil
}

func fromRecord(r *sessionRecord) (*models.Session, error) {
	session := &models.Session{
		ID:           r.ID,
		UserID:       r.UserID,
		BlueprintID:  r.BlueprintID,
		CreatedAt:    r.CreatedAt,
		CurrentIndex: r.CurrentIndex,
		Responses:    make(map[string]models.Response),
		Version:      r.Version,
	}

	if len(r.Responses) > 0 {
		if err := json.Unmarshal(r.Responses, &session.Responses); err != nil {
			return nil, fmt.Errorf("failed to unmarshal responses: %w", err)
		}
	}
	if len(r.Result) > 0 {
		var result *models.Result
		if err := json.Unmarshal(r.Result, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		session.Result = result
	}

	return session, nil
}
