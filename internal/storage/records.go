package storage

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ImageSeparator joins image lists into one column. It cannot occur in a valid
// url, since "%" must be followed by two hex digits there.
const ImageSeparator = "%%"

// ImageList stores an ordered list of image locators in a single text column.
type ImageList []string

// Value implements driver.Valuer. Empty entries are rejected: they could not
// be told apart from the separator on the way back.
func (l ImageList) Value() (driver.Value, error) {
	for i, img := range l {
		if img == "" {
			return nil, errors.Errorf("image %d of list is empty", i)
		}
	}
	return strings.Join(l, ImageSeparator), nil
}

// Scan implements sql.Scanner.
func (l *ImageList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return errors.Errorf("cannot scan %T into ImageList", src)
	}
	if s == "" {
		*l = ImageList{}
		return nil
	}
	*l = strings.Split(s, ImageSeparator)
	return nil
}

// AdRecord is the stored form of domain.Ad.
type AdRecord struct {
	ID        uint      `gorm:"primaryKey"`
	PostID    string    `gorm:"size:10;index;not null"`
	Variant   string    `gorm:"not null"`
	URL       string    `gorm:"not null"`
	Title     string    `gorm:"not null;default:''"`
	Body      string    `gorm:"type:text"`
	Images    ImageList `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArchiveRecord is the stored form of domain.Archive. It cannot exist without
// its AdRecord.
type ArchiveRecord struct {
	ID         uint      `gorm:"primaryKey"`
	URL        string    `gorm:"not null"`
	Title      string    `gorm:"not null;default:''"`
	AdID       uint      `gorm:"not null;index"`
	Ad         AdRecord  `gorm:"constraint:OnDelete:CASCADE"`
	Screenshot string    `gorm:"not null"`
	Images     ImageList `gorm:"type:text"`
	CreatedAt  time.Time
}

// ReplyRecord remembers a reddit thing the bot has answered, once per ad.
type ReplyRecord struct {
	ID        uint   `gorm:"primaryKey"`
	FullID    string `gorm:"uniqueIndex:idx_reply_thing_ad;not null"`
	Kind      string `gorm:"not null"`
	Subreddit string `gorm:"index"`
	PostID    string `gorm:"uniqueIndex:idx_reply_thing_ad;size:10"`
	ArchiveID uint
	CreatedAt time.Time
}
