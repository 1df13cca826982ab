// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/plaza/models"
)

// snapshotName keys the single live snapshot row.
const snapshotName = "plaza"

// GormPostgres 使用GORM的PostgreSQL实现
type GormPostgres struct {
	db *gorm.DB
}

// NewGormPostgres 创建GORM PostgreSQL数据库连接
func NewGormPostgres(host string, port int, user, password, dbname string) (*GormPostgres, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormSnapshot{}); err != nil {
		return nil, err
	}

	return &GormPostgres{db: db}, nil
}

func (p *GormPostgres) Load() (map[string]models.PlayerRecord, error) {
	var snapshot models.GormSnapshot
	if err := p.db.Where("name = ?", snapshotName).First(&snapshot).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return snapshot.Players, nil
}

func (p *GormPostgres) Save(players map[string]models.PlayerRecord) error {
	var snapshot models.GormSnapshot
	result := p.db.Where("name = ?", snapshotName).First(&snapshot)

	if result.Error == gorm.ErrRecordNotFound {
		snapshot = models.GormSnapshot{
			Name:    snapshotName,
			Players: players,
		}
		return p.db.Create(&snapshot).Error
	} else if result.Error != nil {
		return result.Error
	}

	snapshot.Players = players
	snapshot.UpdatedAt = time.Now()
	return p.db.Save(&snapshot).Error
}

func (p *GormPostgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
