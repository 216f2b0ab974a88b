package fixture

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/felixbrock/catalogview/internal/domain"
)

//go:embed seed.yaml
var DefaultSeed []byte

var ErrNotFound = errors.New("product not found error")

type product struct {
	ID    uint `gorm:"primaryKey;autoIncrement:false"`
	Name  string
	Price float64
}

func (product) TableName() string {
	return "products"
}

func fromDomain(p domain.Product) product {
	return product{ID: uint(p.Id), Name: p.Name, Price: p.Price}
}

func (p product) toDomain() domain.Product {
	return domain.Product{Id: int(p.ID), Name: p.Name, Price: p.Price}
}

type seedFile struct {
	Products []domain.Product `yaml:"products"`
}

func LoadSeed(data []byte) ([]domain.Product, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for _, p := range f.Products {
		if p.Id <= 0 {
			return nil, fmt.Errorf("parse seed: product %q has no id", p.Name)
		}
	}
	return f.Products, nil
}

// Store keeps the products served by the fixture API in sqlite.
type Store struct {
	db *gorm.DB
}

func Open(dsn string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	gormLogger := logger.New(slog.NewLogLogger(log.Handler(), slog.LevelDebug), logger.Config{
		SlowThreshold:             100 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}

	if err := db.AutoMigrate(&product{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Seed inserts products, overwriting any with the same id.
func (s *Store) Seed(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	records := make([]product, len(products))
	for i, p := range products {
		records[i] = fromDomain(p)
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&records).Error
}

// List returns products ordered by id. A positive limit selects one page,
// counted from 1.
func (s *Store) List(ctx context.Context, page int, limit int) ([]domain.Product, error) {
	tx := s.db.WithContext(ctx).Order("id")
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		tx = tx.Limit(limit).Offset((page - 1) * limit)
	}

	var records []product
	if err := tx.Find(&records).Error; err != nil {
		return nil, err
	}

	products := make([]domain.Product, len(records))
	for i, r := range records {
		products[i] = r.toDomain()
	}
	return products, nil
}

func (s *Store) Get(ctx context.Context, id int) (domain.Product, error) {
	var record product
	err := s.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, ErrNotFound
	} else if err != nil {
		return domain.Product{}, err
	}
	return record.toDomain(), nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
