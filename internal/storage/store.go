package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qepting91/reddit-archivebot/internal/domain"
)

// Store persists ads, their archives and the replies made for them.
type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite database at path, creating it if needed, and
// migrates the schema.
func Open(path string, log *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create database directory %s", dir)
		}
	}

	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database handle")
	}
	// sqlite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&AdRecord{}, &ArchiveRecord{}, &ReplyRecord{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database schema")
	}
	log.Debug("Database ready", "path", path)

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database handle")
	}
	return sqlDB.Close()
}

// SaveAd inserts ad, or updates the stored ad with the same post id.
func (s *Store) SaveAd(ctx context.Context, ad *domain.Ad) error {
	_, err := saveAd(s.db.WithContext(ctx), ad)
	return err
}

// SaveArchive writes the archive's ad and then the archive in one transaction,
// so an archive never references an ad that was not stored. It returns the id
// of the new archive record.
func (s *Store) SaveArchive(ctx context.Context, archive *domain.Archive) (uint, error) {
	if archive.Ad == nil {
		return 0, errors.Wrap(domain.ErrMissingField, "archive.ad")
	}

	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		adRecord, err := saveAd(tx, archive.Ad)
		if err != nil {
			return err
		}

		record := ArchiveRecord{
			URL:        archive.URL,
			Title:      archive.Title,
			AdID:       adRecord.ID,
			Screenshot: archive.Screenshot,
			Images:     ImageList(archive.Images()),
		}
		if err := tx.Omit("Ad").Create(&record).Error; err != nil {
			return errors.Wrapf(err, "ad %s was staged but its archive could not be written", archive.Ad.PostID)
		}
		id = record.ID
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to save archive")
	}
	return id, nil
}

func saveAd(tx *gorm.DB, ad *domain.Ad) (*AdRecord, error) {
	var record AdRecord
	err := tx.Where("post_id = ?", ad.PostID).First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(err, "failed to look up ad %s", ad.PostID)
	}

	record.PostID = ad.PostID
	record.Variant = ad.Variant().String()
	record.URL = ad.URL
	record.Title = ad.Title
	record.Body = ad.Body
	record.Images = ImageList(ad.Images())

	if err := tx.Save(&record).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to save ad %s", ad.PostID)
	}
	return &record, nil
}

// FindAd loads the stored ad with the given post id.
func (s *Store) FindAd(ctx context.Context, postID string) (*domain.Ad, error) {
	var record AdRecord
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrapf(domain.ErrNotFound, "ad %s", postID)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load ad %s", postID)
	}
	return record.toDomain()
}

// FindArchiveByPostID loads the most recent archive made for the ad with the
// given post id, along with the id of its record.
func (s *Store) FindArchiveByPostID(ctx context.Context, postID string) (*domain.Archive, uint, error) {
	var record ArchiveRecord
	err := s.db.WithContext(ctx).
		Preload("Ad").
		Where("ad_id IN (?)", s.db.Model(&AdRecord{}).Select("id").Where("post_id = ?", postID)).
		Order("id desc").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, errors.Wrapf(domain.ErrNotFound, "archive for ad %s", postID)
	}
	if err != nil {
		return nil, 0, errors.Wrapf(err, "failed to load archive for ad %s", postID)
	}
	archive, err := record.toDomain()
	if err != nil {
		return nil, 0, err
	}
	return archive, record.ID, nil
}

// Archives returns up to limit archives, newest first, with their ads.
func (s *Store) Archives(ctx context.Context, limit int) ([]ArchiveRecord, error) {
	var records []ArchiveRecord
	err := s.db.WithContext(ctx).Preload("Ad").Order("created_at desc").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list archives")
	}
	return records, nil
}

// HasReplied reports whether the bot already answered the thing with fullID
// about the ad postID.
func (s *Store) HasReplied(ctx context.Context, fullID, postID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ReplyRecord{}).
		Where("full_id = ? AND post_id = ?", fullID, postID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrapf(err, "failed to check replies for %s", fullID)
	}
	return count > 0, nil
}

// RecordReply remembers that post was answered with the given archive.
func (s *Store) RecordReply(ctx context.Context, post domain.Post, postID string, archiveID uint) error {
	record := ReplyRecord{
		FullID:    post.FullID,
		Kind:      post.Kind.String(),
		Subreddit: post.Subreddit,
		PostID:    postID,
		ArchiveID: archiveID,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return errors.Wrapf(err, "failed to record reply to %s", post.FullID)
	}
	return nil
}

// Replies returns every recorded reply, oldest first.
func (s *Store) Replies(ctx context.Context) ([]ReplyRecord, error) {
	var records []ReplyRecord
	if err := s.db.WithContext(ctx).Order("created_at").Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list replies")
	}
	return records, nil
}

func (r AdRecord) toDomain() (*domain.Ad, error) {
	variant, err := domain.ParseVariant(r.Variant)
	if err != nil {
		return nil, errors.Wrapf(err, "stored ad %s", r.PostID)
	}
	ad, err := domain.NewAd(variant, r.PostID, r.URL, r.Title, r.Body, r.Images)
	if err != nil {
		return nil, errors.Wrapf(err, "stored ad %s", r.PostID)
	}
	return ad, nil
}

func (r ArchiveRecord) toDomain() (*domain.Archive, error) {
	ad, err := r.Ad.toDomain()
	if err != nil {
		return nil, err
	}
	return domain.NewArchive(r.URL, r.Title, ad, r.Screenshot, r.Images), nil
}
