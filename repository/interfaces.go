package repository

import (
	"github.com/camden-git/familyvault/models"
)

// UserRepository defines database operations for user accounts.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	ListAll() ([]models.User, error)
}

// SessionRepository defines database operations for login sessions.
type SessionRepository interface {
	Create(session *models.Session) error
	GetByToken(token string) (*models.Session, error)
	DeleteByToken(token string) error
	DeleteExpired() error
}

// UploadRepository defines database operations for upload records.
type UploadRepository interface {
	Create(upload *models.Upload) error
	GetByFilename(filename string) (*models.Upload, error)
	ListAll() ([]models.Upload, error)
	Update(upload *models.Upload) error
	Reassign(filename, newUser string) error
	DeleteByFilename(filename string) error
}

// ActivityRepository defines database operations for the activity log.
type ActivityRepository interface {
	Log(action, username, details string) error
	Latest(limit int) ([]models.ActivityEntry, error)
}
