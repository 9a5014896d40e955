package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"menu-planner/internal/core/menu"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/infrastructure/config"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

type recipeRow struct {
	ID        string                            `gorm:"primaryKey;size:64"`
	Name      string                            `gorm:"not null"`
	Doc       datatypes.JSONType[recipe.Recipe] `gorm:"not null"`
	UpdatedAt time.Time
}

func (recipeRow) TableName() string { return "recipes" }

type foodItemRow struct {
	ID        string                              `gorm:"primaryKey;size:64"`
	Name      string                              `gorm:"not null;index"`
	Doc       datatypes.JSONType[recipe.FoodItem] `gorm:"not null"`
	UpdatedAt time.Time
}

func (foodItemRow) TableName() string { return "food_items" }

type dayRow struct {
	Date      string                         `gorm:"column:plan_date;primaryKey;size:8"`
	Meals     datatypes.JSONType[menu.Meals] `gorm:"not null"`
	UpdatedAt time.Time
}

func (dayRow) TableName() string { return "days" }

// SQLStore keeps documents as JSON columns in postgres or sqlite.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore opens the database named by cfg and migrates the schema.
func NewSQLStore(cfg config.StoreConfig) (*SQLStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Driver, err)
	}
	return NewSQLStoreWithDB(db)
}

// NewSQLStoreWithDB wraps an open connection and migrates the schema.
func NewSQLStoreWithDB(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&recipeRow{}, &foodItemRow{}, &dayRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// GetRecipe loads one recipe document.
func (s *SQLStore) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	var row recipeRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recipeNotFound(id)
		}
		return nil, err
	}
	r := row.Doc.Data()
	return &r, nil
}

// ListRecipes returns the recipes carrying tag, in id order. Tags live
// inside the document, so filtering happens after the scan.
func (s *SQLStore) ListRecipes(ctx context.Context, tag string) ([]recipe.Recipe, error) {
	var rows []recipeRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]recipe.Recipe, 0, len(rows))
	for _, row := range rows {
		if r := row.Doc.Data(); hasTag(r, tag) {
			out = append(out, r)
		}
	}
	return out, nil
}

// SaveRecipe upserts r without its resolved food items.
func (s *SQLStore) SaveRecipe(ctx context.Context, r recipe.Recipe) error {
	row := recipeRow{
		ID:   r.ID,
		Name: r.Name,
		Doc:  datatypes.NewJSONType(r.Stripped()),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "doc", "updated_at"}),
		}).
		Create(&row).Error
}

// DeleteRecipe removes the recipe row with id.
func (s *SQLStore) DeleteRecipe(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&recipeRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return recipeNotFound(id)
	}
	return nil
}

// GetFoodItem loads one food item document.
func (s *SQLStore) GetFoodItem(ctx context.Context, id string) (*recipe.FoodItem, error) {
	var row foodItemRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, foodItemNotFound(id)
		}
		return nil, err
	}
	f := row.Doc.Data()
	return &f, nil
}

// GetFoodItems loads the food items among ids in one query.
func (s *SQLStore) GetFoodItems(ctx context.Context, ids []string) (map[string]recipe.FoodItem, error) {
	out := make(map[string]recipe.FoodItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []foodItemRow
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Doc.Data()
	}
	return out, nil
}

// SaveFoodItem upserts f.
func (s *SQLStore) SaveFoodItem(ctx context.Context, f recipe.FoodItem) error {
	row := foodItemRow{
		ID:   f.ID,
		Name: f.Name,
		Doc:  datatypes.NewJSONType(f),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "doc", "updated_at"}),
		}).
		Create(&row).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ListFoodItems counts the matching rows and loads one page of them in name
// order.
func (s *SQLStore) ListFoodItems(ctx context.Context, q recipe.FoodQuery) ([]recipe.FoodItem, int, error) {
	tx := s.db.WithContext(ctx).Model(&foodItemRow{})
	if terms := q.Terms(); len(terms) > 0 {
		conds := make([]string, len(terms))
		args := make([]interface{}, len(terms))
		for i, term := range terms {
			conds[i] = `LOWER(name) LIKE ? ESCAPE '\'`
			args[i] = "%" + likeEscaper.Replace(term) + "%"
		}
		tx = tx.Where(strings.Join(conds, " OR "), args...)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := tx.Order("name").Order("id")
	if q.Skip > 0 {
		page = page.Offset(q.Skip)
	}
	if q.Limit > 0 {
		page = page.Limit(q.Limit)
	}
	var rows []foodItemRow
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]recipe.FoodItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Doc.Data())
	}
	return out, int(total), nil
}

// DeleteFoodItem removes the food item row with id.
func (s *SQLStore) DeleteFoodItem(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&foodItemRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return foodItemNotFound(id)
	}
	return nil
}

// DaysBetween returns the days in [from, to) in date order.
func (s *SQLStore) DaysBetween(ctx context.Context, from, to string) ([]menu.DayAssignment, error) {
	var rows []dayRow
	err := s.db.WithContext(ctx).
		Where("plan_date >= ? AND plan_date < ?", from, to).
		Order("plan_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDays(rows), nil
}

// DaysIn returns the stored days among dates.
func (s *SQLStore) DaysIn(ctx context.Context, dates []string) ([]menu.DayAssignment, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	var rows []dayRow
	err := s.db.WithContext(ctx).
		Where("plan_date IN ?", dates).
		Order("plan_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDays(rows), nil
}

// SaveDay upserts the day's meals.
func (s *SQLStore) SaveDay(ctx context.Context, day menu.DayAssignment) error {
	row := dayRow{
		Date:  day.Date,
		Meals: datatypes.NewJSONType(day.Meals),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"meals", "updated_at"}),
		}).
		Create(&row).Error
}

func toDays(rows []dayRow) []menu.DayAssignment {
	out := make([]menu.DayAssignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, menu.DayAssignment{Date: row.Date, Meals: row.Meals.Data()})
	}
	return out
}

// Ping checks the underlying connection pool.
func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
