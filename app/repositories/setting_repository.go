package repositories

import (
	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/pkg/crypt"
	"github.com/cafahardware/pos/pkg/orm"
)

// SettingRepository stores key/value store settings. Secret values (gateway
// credentials, API keys) are encrypted at rest.
type SettingRepository struct{}

func NewSettingRepository() *SettingRepository {
	return &SettingRepository{}
}

// Get returns the decrypted value for key, or fallback when unset.
func (r *SettingRepository) Get(key, fallback string) (string, error) {
	var setting models.Setting
	err := orm.DB().Model(&models.Setting{}).Where("key = ?", key).First(&setting)
	if err != nil {
		if err == orm.ErrRecordNotFound {
			return fallback, nil
		}
		return "", err
	}

	if !setting.Encrypted {
		return setting.Value, nil
	}
	return crypt.Decrypt(setting.Value)
}

// Set stores a plain value under key, creating or updating the row.
func (r *SettingRepository) Set(key, value string) error {
	return r.save(key, value, false)
}

// SetSecret stores a value encrypted at rest.
func (r *SettingRepository) SetSecret(key, value string) error {
	encrypted, err := crypt.Encrypt(value)
	if err != nil {
		return err
	}
	return r.save(key, encrypted, true)
}

func (r *SettingRepository) save(key, value string, encrypted bool) error {
	var existing models.Setting
	err := orm.DB().Model(&models.Setting{}).Where("key = ?", key).First(&existing)
	if err != nil {
		if err != orm.ErrRecordNotFound {
			return err
		}
		return orm.DB().Create(&models.Setting{Key: key, Value: value, Encrypted: encrypted})
	}

	existing.Value = value
	existing.Encrypted = encrypted
	return orm.DB().Save(&existing)
}

// All returns every setting with secrets masked, for the admin screen.
func (r *SettingRepository) All() ([]models.Setting, error) {
	var settings []models.Setting
	if err := orm.DB().Model(&models.Setting{}).Order("key asc").Get(&settings); err != nil {
		return nil, err
	}
	for i := range settings {
		if settings[i].Encrypted {
			settings[i].Value = "********"
		}
	}
	return settings, nil
}
